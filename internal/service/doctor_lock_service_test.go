package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestLocalDoctorLocker_BusyAfterWait(t *testing.T) {
	locker := NewLocalDoctorLocker(newTestLogger(), 100*time.Millisecond)
	defer locker.Stop()

	doctorID := uuid.New()
	unlock, err := locker.Lock(context.Background(), doctorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := locker.Lock(context.Background(), doctorID); !errors.Is(err, ErrRegenerationBusy) {
		t.Fatalf("expected ErrRegenerationBusy, got %v", err)
	}
	if !errors.Is(ErrRegenerationBusy, entity.ErrConflict) {
		t.Error("ErrRegenerationBusy should be a conflict")
	}

	other, err := locker.Lock(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("other doctors must not be blocked: %v", err)
	}
	other()

	unlock()
	again, err := locker.Lock(context.Background(), doctorID)
	if err != nil {
		t.Fatalf("unexpected error after unlock: %v", err)
	}
	again()
}

func TestLocalDoctorLocker_ContextCancelled(t *testing.T) {
	locker := NewLocalDoctorLocker(newTestLogger(), time.Minute)
	defer locker.Stop()

	doctorID := uuid.New()
	unlock, err := locker.Lock(context.Background(), doctorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := locker.Lock(ctx, doctorID); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestLocalDoctorLocker_CleanupStaleMutexes(t *testing.T) {
	locker := NewLocalDoctorLocker(newTestLogger(), time.Second)
	defer locker.Stop()

	idle, busy := uuid.New(), uuid.New()
	unlockIdle, _ := locker.Lock(context.Background(), idle)
	unlockIdle()
	unlockBusy, _ := locker.Lock(context.Background(), busy)
	defer unlockBusy()

	cleaned := locker.cleanupStaleMutexes(time.Now().Add(time.Hour))
	if cleaned != 1 {
		t.Errorf("expected 1 stale mutex cleaned, got %d", cleaned)
	}
	if _, ok := locker.doctorMu.Load(busy); !ok {
		t.Error("held mutex must not be cleaned")
	}
	if _, ok := locker.doctorMu.Load(idle); ok {
		t.Error("idle mutex should be cleaned")
	}
}

func TestLocalDoctorLocker_StopTwice(t *testing.T) {
	locker := NewLocalDoctorLocker(newTestLogger(), time.Second)
	locker.Stop()
	locker.Stop()
}
