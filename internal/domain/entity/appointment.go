package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// ActiveAppointmentStatuses hold their slot in booked state.
var ActiveAppointmentStatuses = []AppointmentStatus{AppointmentStatusPending, AppointmentStatusConfirmed}

// Appointment binds a patient to exactly one slot while active.
type Appointment struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	SlotID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"slot_id"`
	Date         string            `gorm:"column:appointment_date;type:varchar(10);not null;index" json:"date"`
	StartTime    string            `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime      string            `gorm:"type:varchar(5);not null" json:"end_time"`
	PatientID    *uuid.UUID        `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	PatientName  string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone string            `gorm:"type:varchar(20)" json:"patient_phone,omitempty"`
	Notes        string            `gorm:"type:text" json:"notes,omitempty"`
	Status       AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CancelReason string            `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsActive checks if the appointment still holds its slot
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// IsPending checks if appointment is in pending status
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// BindSlot copies the slot identity and time onto the appointment.
func (a *Appointment) BindSlot(slot *Slot) {
	a.SlotID = slot.ID
	a.DoctorID = slot.DoctorID
	a.Date = slot.Date
	a.StartTime = slot.StartTime
	a.EndTime = slot.EndTime
}
