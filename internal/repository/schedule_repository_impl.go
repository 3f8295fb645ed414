package repository

import (
	"context"
	"errors"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) domainRepo.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) FindWeeklyTemplate(ctx context.Context, doctorID uuid.UUID) (*entity.WeeklyTemplate, error) {
	var days []entity.WeeklyTemplateDay
	err := conn(ctx, r.db).Where("doctor_id = ?", doctorID).Order("weekday ASC").Find(&days).Error
	if err != nil {
		return nil, err
	}
	return entity.NewWeeklyTemplate(doctorID, days), nil
}

// SaveWeeklyTemplateDay upserts on (doctor_id, weekday).
func (r *scheduleRepository) SaveWeeklyTemplateDay(ctx context.Context, day *entity.WeeklyTemplateDay) error {
	if day.ID == uuid.Nil {
		day.ID = uuid.New()
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{"ranges", "updated_at"}),
	}).Create(day).Error
}

func (r *scheduleRepository) FindDateOverrides(ctx context.Context, doctorID uuid.UUID, from, to string) ([]entity.DateOverride, error) {
	var overrides []entity.DateOverride
	err := conn(ctx, r.db).
		Where("doctor_id = ? AND override_date >= ? AND override_date <= ?", doctorID, from, to).
		Order("override_date ASC").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

// SaveDateOverride upserts on (doctor_id, override_date).
func (r *scheduleRepository) SaveDateOverride(ctx context.Context, override *entity.DateOverride) error {
	if override.ID == uuid.Nil {
		override.ID = uuid.New()
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "override_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"ranges", "updated_at"}),
	}).Create(override).Error
}

func (r *scheduleRepository) DeleteDateOverride(ctx context.Context, doctorID uuid.UUID, date string) (int64, error) {
	result := conn(ctx, r.db).Where("doctor_id = ? AND override_date = ?", doctorID, date).Delete(&entity.DateOverride{})
	return result.RowsAffected, result.Error
}

func (r *scheduleRepository) FindAdHocBlocks(ctx context.Context, doctorID uuid.UUID, from, to string) ([]entity.AdHocBlock, error) {
	var blocks []entity.AdHocBlock
	err := conn(ctx, r.db).
		Where("doctor_id = ? AND block_date >= ? AND block_date <= ?", doctorID, from, to).
		Order("block_date ASC, start_time ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *scheduleRepository) FindAdHocBlockByID(ctx context.Context, id uuid.UUID) (*entity.AdHocBlock, error) {
	var block entity.AdHocBlock
	err := conn(ctx, r.db).Where("id = ?", id).First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &block, nil
}

func (r *scheduleRepository) CreateAdHocBlock(ctx context.Context, block *entity.AdHocBlock) error {
	return conn(ctx, r.db).Create(block).Error
}

func (r *scheduleRepository) DeleteAdHocBlock(ctx context.Context, id uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&entity.AdHocBlock{})
	return result.RowsAffected, result.Error
}
