package memory

import (
	"context"
	"time"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
)

type appointmentRepository struct {
	store *Store
}

func NewAppointmentRepository(store *Store) domainRepo.AppointmentRepository {
	return &appointmentRepository{store: store}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	defer r.store.lock(ctx)()
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := time.Now()
	appointment.CreatedAt, appointment.UpdatedAt = now, now
	r.store.appointments[appointment.ID] = *appointment
	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	defer r.store.lock(ctx)()
	a, ok := r.store.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus, reason string) (int64, error) {
	defer r.store.lock(ctx)()
	a, ok := r.store.appointments[id]
	if !ok || !statusIn(a.Status, from) {
		return 0, nil
	}
	a.Status = to
	if reason != "" {
		a.CancelReason = reason
	}
	a.UpdatedAt = time.Now()
	r.store.appointments[id] = a
	return 1, nil
}

func (r *appointmentRepository) MoveToSlot(ctx context.Context, appointment *entity.Appointment) (int64, error) {
	defer r.store.lock(ctx)()
	a, ok := r.store.appointments[appointment.ID]
	if !ok || !a.IsActive() {
		return 0, nil
	}
	a.SlotID = appointment.SlotID
	a.DoctorID = appointment.DoctorID
	a.Date = appointment.Date
	a.StartTime = appointment.StartTime
	a.EndTime = appointment.EndTime
	a.UpdatedAt = time.Now()
	r.store.appointments[a.ID] = a
	return 1, nil
}

func statusIn(status entity.AppointmentStatus, set []entity.AppointmentStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
