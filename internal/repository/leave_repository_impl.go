package repository

import (
	"context"
	"errors"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) domainRepo.LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, leave *entity.LeaveRecord) error {
	return conn(ctx, r.db).Create(leave).Error
}

func (r *leaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LeaveRecord, error) {
	var leave entity.LeaveRecord
	err := conn(ctx, r.db).Where("id = ?", id).First(&leave).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID, from, to string) ([]entity.LeaveRecord, error) {
	var leaves []entity.LeaveRecord
	err := conn(ctx, r.db).
		Where("doctor_id = ? AND leave_date >= ? AND leave_date <= ?", doctorID, from, to).
		Order("leave_date ASC, created_at ASC").
		Find(&leaves).Error
	if err != nil {
		return nil, err
	}
	return leaves, nil
}

func (r *leaveRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&entity.LeaveRecord{})
	return result.RowsAffected, result.Error
}
