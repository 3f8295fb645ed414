package memory

import (
	"context"
	"errors"
	"testing"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

func TestTxManager_RollbackRestoresSnapshot(t *testing.T) {
	store := NewStore()
	tx := NewTxManager(store)
	slots := NewSlotRepository(store)
	doctorID := uuid.New()

	boom := errors.New("boom")
	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := slots.CreateBatch(ctx, []*entity.Slot{{DoctorID: doctorID, Date: "2026-10-19", StartTime: "09:00", EndTime: "09:30", Status: entity.SlotStatusAvailable}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := slots.Find(context.Background(), entity.SlotFilter{DoctorID: &doctorID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected rollback, found %d slots", len(got))
	}
}

func TestTxManager_NestedJoinsOuter(t *testing.T) {
	store := NewStore()
	tx := NewTxManager(store)
	doctors := NewDoctorRepository(store)

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return doctors.Create(ctx, &entity.Doctor{FullName: "Dr. Nested", SlotDurationMinutes: 30, IsActive: true, IsAvailable: true})
		})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, _ := doctors.FindAll(context.Background())
	if len(all) != 1 {
		t.Errorf("expected 1 doctor, got %d", len(all))
	}
}

func TestSlotRepository_CreateBatchRejectsDuplicateStart(t *testing.T) {
	store := NewStore()
	slots := NewSlotRepository(store)
	doctorID := uuid.New()

	first := &entity.Slot{DoctorID: doctorID, Date: "2026-10-19", StartTime: "09:00", EndTime: "09:30", Status: entity.SlotStatusAvailable}
	if err := slots.CreateBatch(context.Background(), []*entity.Slot{first}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := &entity.Slot{DoctorID: doctorID, Date: "2026-10-19", StartTime: "09:00", EndTime: "10:00", Status: entity.SlotStatusAvailable}
	if err := slots.CreateBatch(context.Background(), []*entity.Slot{dup}); !errors.Is(err, entity.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestSlotRepository_ConditionalWrites(t *testing.T) {
	store := NewStore()
	slots := NewSlotRepository(store)
	apptID := uuid.New()

	s := &entity.Slot{DoctorID: uuid.New(), Date: "2026-10-19", StartTime: "09:00", EndTime: "09:30", Status: entity.SlotStatusAvailable}
	if err := slots.CreateBatch(context.Background(), []*entity.Slot{s}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claim := entity.SlotStatusChange{From: entity.SlotStatusAvailable, To: entity.SlotStatusBooked, AppointmentID: &apptID}
	if n, _ := slots.UpdateStatus(context.Background(), s.ID, claim); n != 1 {
		t.Fatalf("expected first claim to win, got %d", n)
	}
	if n, _ := slots.UpdateStatus(context.Background(), s.ID, claim); n != 0 {
		t.Errorf("expected second claim to match nothing, got %d", n)
	}

	if n, _ := slots.DeleteUnbooked(context.Background(), []uuid.UUID{s.ID}); n != 0 {
		t.Errorf("booked slot must not be deleted, got %d", n)
	}
	if n, _ := slots.DeleteUnbookedOutside(context.Background(), s.DoctorID, "2026-11-01", "2026-11-30"); n != 0 {
		t.Errorf("booked slot must not be pruned, got %d", n)
	}
}
