package dto

import (
	"time"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type WeeklyTemplateDayRequest struct {
	Ranges []entity.TimeRange `json:"ranges" validate:"dive"`
}

// DateOverrideRequest replaces the template for one date. An empty list marks a day off.
type DateOverrideRequest struct {
	Ranges []entity.TimeRange `json:"ranges" validate:"dive"`
}

type CreateAdHocBlockRequest struct {
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
	Note      string `json:"note" validate:"omitempty,max=500"`
}

type CreateLeaveRequest struct {
	Date      string `json:"date" validate:"required,isodate"`
	Kind      string `json:"kind" validate:"required,oneof=full partial"`
	StartTime string `json:"start_time" validate:"omitempty,clock"`
	EndTime   string `json:"end_time" validate:"omitempty,clock"`
	Reason    string `json:"reason" validate:"omitempty,max=500"`
}

// Response DTOs

type WeeklyTemplateDayResponse struct {
	DoctorID  uuid.UUID          `json:"doctor_id"`
	Weekday   int                `json:"weekday"`
	Ranges    []entity.TimeRange `json:"ranges"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type DateOverrideResponse struct {
	DoctorID  uuid.UUID          `json:"doctor_id"`
	Date      string             `json:"date"`
	Ranges    []entity.TimeRange `json:"ranges"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type AdHocBlockResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LeaveResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Kind      string    `json:"kind"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegenerationResponse reports the slot rebuild triggered by a write.
type RegenerationResponse struct {
	DoctorID     uuid.UUID `json:"doctor_id"`
	Count        int       `json:"count"`
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	Deleted      int       `json:"deleted"`
	Pruned       int       `json:"pruned"`
	LeaveBlocked int       `json:"leave_blocked"`
	FailedDays   []string  `json:"failed_days,omitempty"`
}

// ScheduleChangeResponse pairs a saved schedule source with the regeneration it caused.
type ScheduleChangeResponse struct {
	Data         interface{}           `json:"data,omitempty"`
	Regeneration *RegenerationResponse `json:"regeneration,omitempty"`
}
