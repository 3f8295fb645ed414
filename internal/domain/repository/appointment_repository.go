package repository

import (
	"context"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)

	// UpdateStatus moves an appointment to status only while it is in one of from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus, reason string) (int64, error)

	// MoveToSlot rebinds an active appointment to another slot.
	MoveToSlot(ctx context.Context, appointment *entity.Appointment) (int64, error)
}
