package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotStatus represents the booking state of a slot
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusBlocked   SlotStatus = "blocked"
)

// BlockSource records who blocked a slot. Leave blocks are recomputed by
// regeneration; manual blocks are kept.
type BlockSource string

const (
	BlockSourceNone   BlockSource = ""
	BlockSourceLeave  BlockSource = "leave"
	BlockSourceManual BlockSource = "manual"
)

// Slot is the fixed-duration bookable unit for one doctor on one date.
type Slot struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_slot_doctor_date_start" json:"doctor_id"`
	Date          string      `gorm:"column:slot_date;type:varchar(10);not null;uniqueIndex:idx_slot_doctor_date_start" json:"date"`
	StartTime     string      `gorm:"type:varchar(5);not null;uniqueIndex:idx_slot_doctor_date_start" json:"start_time"`
	EndTime       string      `gorm:"type:varchar(5);not null" json:"end_time"`
	Label         string      `gorm:"type:varchar(40);not null" json:"label"`
	Status        SlotStatus  `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	AppointmentID *uuid.UUID  `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	BlockReason   string      `gorm:"type:text" json:"block_reason,omitempty"`
	BlockSource   BlockSource `gorm:"type:varchar(10)" json:"block_source,omitempty"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Slot) TableName() string {
	return "slots"
}

// Range returns the slot interval.
func (s *Slot) Range() TimeRange {
	return TimeRange{Start: s.StartTime, End: s.EndTime}
}

// IsAvailable checks if slot can be booked
func (s *Slot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}

// IsBooked checks if slot holds an appointment
func (s *Slot) IsBooked() bool {
	return s.Status == SlotStatusBooked
}

// IsBlocked checks if slot is blocked
func (s *Slot) IsBlocked() bool {
	return s.Status == SlotStatusBlocked
}

// SlotFilter is a domain-level filter for querying slots.
type SlotFilter struct {
	DoctorID *uuid.UUID
	Date     string // exact date, YYYY-MM-DD
	From     string // inclusive, YYYY-MM-DD
	To       string // inclusive, YYYY-MM-DD
	Status   SlotStatus
}

// SlotStatusChange describes a compare-and-set status transition. AppointmentID is
// written when To is booked, and required to match when From is booked.
type SlotStatusChange struct {
	From          SlotStatus
	To            SlotStatus
	AppointmentID *uuid.UUID
	BlockReason   string
	BlockSource   BlockSource
}

// Matches reports whether s is in the state the change expects.
func (c SlotStatusChange) Matches(s *Slot) bool {
	if s.Status != c.From {
		return false
	}
	if c.From == SlotStatusBooked && c.AppointmentID != nil {
		return s.AppointmentID != nil && *s.AppointmentID == *c.AppointmentID
	}
	return true
}

// Apply writes the change onto s without checking Matches.
func (c SlotStatusChange) Apply(s *Slot) {
	s.Status = c.To
	s.AppointmentID = nil
	s.BlockReason = ""
	s.BlockSource = BlockSourceNone
	switch c.To {
	case SlotStatusBooked:
		if c.AppointmentID != nil {
			id := *c.AppointmentID
			s.AppointmentID = &id
		}
	case SlotStatusBlocked:
		s.BlockReason = c.BlockReason
		s.BlockSource = c.BlockSource
	}
}
