package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/domain/repository"
	"clinic-slot-engine/internal/repository/memory"
	"clinic-slot-engine/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ---------- Helper ----------

// testMonday is the first day of every test horizon.
const testMonday = "2026-10-19"

type testEnv struct {
	store        *memory.Store
	slotRepo     repository.SlotRepository
	apptRepo     repository.AppointmentRepository
	auditRepo    repository.AuditLogRepository
	locker       *service.LocalDoctorLocker
	regeneration SlotRegenerationUsecase
	booking      BookingUsecase
	schedule     ScheduleUsecase
	slots        SlotUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	doctorRepo := memory.NewDoctorRepository(store)
	scheduleRepo := memory.NewScheduleRepository(store)
	leaveRepo := memory.NewLeaveRepository(store)
	slotRepo := memory.NewSlotRepository(store)
	apptRepo := memory.NewAppointmentRepository(store)
	auditRepo := memory.NewAuditLogRepository(store)

	auditService := service.NewAuditService(log, auditRepo)
	locker := service.NewLocalDoctorLocker(log, time.Second)
	t.Cleanup(locker.Stop)

	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	horizon := NewHorizon(7, time.UTC, func() time.Time { return now })

	regeneration := NewSlotRegenerationUsecase(txManager, log, doctorRepo, scheduleRepo, leaveRepo, slotRepo, locker, auditService, horizon)
	booking := NewBookingUsecase(txManager, log, slotRepo, apptRepo, auditService, horizon)

	return &testEnv{
		store:        store,
		slotRepo:     slotRepo,
		apptRepo:     apptRepo,
		auditRepo:    auditRepo,
		locker:       locker,
		regeneration: regeneration,
		booking:      booking,
		schedule:     NewScheduleUsecase(txManager, log, doctorRepo, scheduleRepo, leaveRepo, auditService, regeneration, nil),
		slots:        NewSlotUsecase(log, slotRepo, booking),
	}
}

// newMorningDoctor creates a 30-minute doctor working Mondays 09:00-13:00.
func (e *testEnv) newMorningDoctor(t *testing.T) *entity.Doctor {
	t.Helper()
	ctx := context.Background()

	doctor, err := e.schedule.CreateDoctor(ctx, &dto.CreateDoctorRequest{FullName: "Dr. Morning", SlotDurationMinutes: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err = e.schedule.SetWeeklyTemplateDay(ctx, doctor.ID, int(time.Monday), &dto.WeeklyTemplateDayRequest{
		Ranges: []entity.TimeRange{{Start: "09:00", End: "13:00"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doctor
}

func (e *testEnv) daySlots(t *testing.T, doctorID uuid.UUID, date string) []entity.Slot {
	t.Helper()
	slots, err := e.slotRepo.Find(context.Background(), entity.SlotFilter{DoctorID: &doctorID, Date: date})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return slots
}

func (e *testEnv) slotAt(t *testing.T, doctorID uuid.UUID, date, start string) entity.Slot {
	t.Helper()
	for _, s := range e.daySlots(t, doctorID, date) {
		if s.StartTime == start {
			return s
		}
	}
	t.Fatalf("no slot at %s %s", date, start)
	return entity.Slot{}
}

func (e *testEnv) book(t *testing.T, slotID uuid.UUID) *entity.Appointment {
	t.Helper()
	appointment, err := e.booking.Book(context.Background(), slotID, AppointmentDraft{PatientName: "Jane Doe", PatientPhone: "+6281234"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return appointment
}

func countStatus(slots []entity.Slot, status entity.SlotStatus) int {
	n := 0
	for _, s := range slots {
		if s.Status == status {
			n++
		}
	}
	return n
}

func assertNoOverlap(t *testing.T, slots []entity.Slot) {
	t.Helper()
	if err := service.CheckDayInvariants(slots); err != nil {
		t.Fatalf("day invariants broken: %v", err)
	}
}
