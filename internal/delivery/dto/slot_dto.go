package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SlotListRequest struct {
	DoctorID string `validate:"omitempty,uuid"`
	Date     string `validate:"omitempty,isodate"`
	From     string `validate:"omitempty,isodate"`
	To       string `validate:"omitempty,isodate"`
	Status   string `validate:"omitempty,oneof=available booked blocked"`
}

type UpdateSlotStatusRequest struct {
	Status      string `json:"status" validate:"required,oneof=available booked blocked"`
	BlockReason string `json:"block_reason" validate:"omitempty,max=500"`
}

// Response DTOs

type SlotResponse struct {
	ID            uuid.UUID  `json:"id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	Date          string     `json:"date"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	Label         string     `json:"label"`
	Status        string     `json:"status"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	BlockReason   string     `json:"block_reason,omitempty"`
	BlockSource   string     `json:"block_source,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}
