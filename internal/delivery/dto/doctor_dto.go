package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	FullName            string `json:"full_name" validate:"required,min=2"`
	Specialization      string `json:"specialization" validate:"omitempty"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" validate:"required,min=1"`
	IsActive            *bool  `json:"is_active" validate:"omitempty"`
	IsAvailable         *bool  `json:"is_available" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	FullName            string `json:"full_name" validate:"omitempty,min=2"`
	Specialization      string `json:"specialization" validate:"omitempty"`
	SlotDurationMinutes *int   `json:"slot_duration_minutes" validate:"omitempty,min=1"`
	IsActive            *bool  `json:"is_active" validate:"omitempty"`
	IsAvailable         *bool  `json:"is_available" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID                  uuid.UUID `json:"id"`
	FullName            string    `json:"full_name"`
	Specialization      string    `json:"specialization,omitempty"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	IsActive            bool      `json:"is_active"`
	IsAvailable         bool      `json:"is_available"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
