package repository

import (
	"context"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

type SlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)
	Find(ctx context.Context, filter entity.SlotFilter) ([]entity.Slot, error)

	// FindDayForUpdate reads one doctor-day and, inside a transaction, locks the
	// returned rows until commit.
	FindDayForUpdate(ctx context.Context, doctorID uuid.UUID, date string) ([]entity.Slot, error)

	CreateBatch(ctx context.Context, slots []*entity.Slot) error

	// UpdateStatus is a compare-and-set: it only writes when the slot is still in
	// change.From. Returns affected rows: 1 = applied, 0 = lost the race.
	UpdateStatus(ctx context.Context, id uuid.UUID, change entity.SlotStatusChange) (int64, error)

	// DeleteUnbooked removes the given slots unless they are booked at delete time.
	DeleteUnbooked(ctx context.Context, ids []uuid.UUID) (int64, error)

	// DeleteUnbookedOutside removes non-booked slots of a doctor dated before from or after to.
	DeleteUnbookedOutside(ctx context.Context, doctorID uuid.UUID, from, to string) (int64, error)
}
