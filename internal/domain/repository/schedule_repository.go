package repository

import (
	"context"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

// ScheduleRepository stores weekly templates, date overrides and ad-hoc blocks.
// Date bounds are inclusive ISO dates.
type ScheduleRepository interface {
	FindWeeklyTemplate(ctx context.Context, doctorID uuid.UUID) (*entity.WeeklyTemplate, error)
	SaveWeeklyTemplateDay(ctx context.Context, day *entity.WeeklyTemplateDay) error

	FindDateOverrides(ctx context.Context, doctorID uuid.UUID, from, to string) ([]entity.DateOverride, error)
	SaveDateOverride(ctx context.Context, override *entity.DateOverride) error
	DeleteDateOverride(ctx context.Context, doctorID uuid.UUID, date string) (int64, error)

	FindAdHocBlocks(ctx context.Context, doctorID uuid.UUID, from, to string) ([]entity.AdHocBlock, error)
	FindAdHocBlockByID(ctx context.Context, id uuid.UUID) (*entity.AdHocBlock, error)
	CreateAdHocBlock(ctx context.Context, block *entity.AdHocBlock) error
	DeleteAdHocBlock(ctx context.Context, id uuid.UUID) (int64, error)
}
