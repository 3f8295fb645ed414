package repository

import (
	"context"
	"errors"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return translateError(conn(ctx, r.db).Create(appointment).Error)
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := conn(ctx, r.db).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// UpdateStatus atomically changes status ONLY if the appointment is in one of from.
// Returns affected rows: 1 = success, 0 = already moved on (prevents double-cancel race).
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.AppointmentStatus, to entity.AppointmentStatus, reason string) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if reason != "" {
		updates["cancel_reason"] = reason
	}
	result := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) MoveToSlot(ctx context.Context, appointment *entity.Appointment) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", appointment.ID, entity.ActiveAppointmentStatuses).
		Updates(map[string]interface{}{
			"slot_id":          appointment.SlotID,
			"doctor_id":        appointment.DoctorID,
			"appointment_date": appointment.Date,
			"start_time":       appointment.StartTime,
			"end_time":         appointment.EndTime,
		})
	return result.RowsAffected, result.Error
}
