package repository

import (
	"context"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

type LeaveRepository interface {
	Create(ctx context.Context, leave *entity.LeaveRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LeaveRecord, error)
	FindByDoctor(ctx context.Context, doctorID uuid.UUID, from, to string) ([]entity.LeaveRecord, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
