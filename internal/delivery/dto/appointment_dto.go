package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID     uuid.UUID  `json:"doctor_id" validate:"required"`
	SlotID       uuid.UUID  `json:"slot_id" validate:"required"`
	PatientID    *uuid.UUID `json:"patient_id" validate:"omitempty"`
	PatientName  string     `json:"patient_name" validate:"required,min=2,max=255"`
	PatientPhone string     `json:"patient_phone" validate:"omitempty,max=20"`
	Notes        string     `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateAppointmentRequest either changes the status or moves the appointment to
// NewSlotID; exactly one must be set.
type UpdateAppointmentRequest struct {
	Status            string     `json:"status" validate:"omitempty,oneof=confirmed completed cancelled no-show"`
	CancelReason      string     `json:"cancel_reason" validate:"omitempty,max=500"`
	NewSlotID         *uuid.UUID `json:"new_slot_id" validate:"omitempty"`
	AllowDoctorChange bool       `json:"allow_doctor_change"`
}

// Response DTOs

type AppointmentResponse struct {
	ID           uuid.UUID  `json:"id"`
	DoctorID     uuid.UUID  `json:"doctor_id"`
	SlotID       uuid.UUID  `json:"slot_id"`
	Date         string     `json:"date"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	PatientID    *uuid.UUID `json:"patient_id,omitempty"`
	PatientName  string     `json:"patient_name"`
	PatientPhone string     `json:"patient_phone,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Status       string     `json:"status"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
