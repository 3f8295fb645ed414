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

// slotInsertBatchSize caps rows per INSERT statement
const slotInsertBatchSize = 200

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) domainRepo.SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error) {
	var slot entity.Slot
	err := conn(ctx, r.db).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// Find supports optional filters: doctor, exact date, date range and status.
func (r *slotRepository) Find(ctx context.Context, filter entity.SlotFilter) ([]entity.Slot, error) {
	query := conn(ctx, r.db).Model(&entity.Slot{})

	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.Date != "" {
		query = query.Where("slot_date = ?", filter.Date)
	}
	if filter.From != "" {
		query = query.Where("slot_date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("slot_date <= ?", filter.To)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var slots []entity.Slot
	err := query.Order("slot_date ASC, start_time ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) FindDayForUpdate(ctx context.Context, doctorID uuid.UUID, date string) ([]entity.Slot, error) {
	query := conn(ctx, r.db).Where("doctor_id = ? AND slot_date = ?", doctorID, date)
	if inTransaction(ctx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var slots []entity.Slot
	err := query.Order("start_time ASC").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) CreateBatch(ctx context.Context, slots []*entity.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	return translateError(conn(ctx, r.db).CreateInBatches(slots, slotInsertBatchSize).Error)
}

// UpdateStatus atomically transitions a slot ONLY if it is still in change.From.
// Returns affected rows: 1 = success, 0 = status changed underneath (prevents double-booking).
func (r *slotRepository) UpdateStatus(ctx context.Context, id uuid.UUID, change entity.SlotStatusChange) (int64, error) {
	query := conn(ctx, r.db).Model(&entity.Slot{}).Where("id = ? AND status = ?", id, change.From)
	if change.From == entity.SlotStatusBooked && change.AppointmentID != nil {
		query = query.Where("appointment_id = ?", *change.AppointmentID)
	}

	var target entity.Slot
	change.Apply(&target)

	result := query.Updates(map[string]interface{}{
		"status":         target.Status,
		"appointment_id": target.AppointmentID,
		"block_reason":   target.BlockReason,
		"block_source":   target.BlockSource,
	})
	return result.RowsAffected, result.Error
}

func (r *slotRepository) DeleteUnbooked(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := conn(ctx, r.db).
		Where("id IN ? AND status <> ?", ids, entity.SlotStatusBooked).
		Delete(&entity.Slot{})
	return result.RowsAffected, result.Error
}

func (r *slotRepository) DeleteUnbookedOutside(ctx context.Context, doctorID uuid.UUID, from, to string) (int64, error) {
	result := conn(ctx, r.db).
		Where("doctor_id = ? AND status <> ? AND (slot_date < ? OR slot_date > ?)", doctorID, entity.SlotStatusBooked, from, to).
		Delete(&entity.Slot{})
	return result.RowsAffected, result.Error
}
