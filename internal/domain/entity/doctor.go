package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSlotDurations is the allowed slot duration set when none is configured.
var DefaultSlotDurations = []int{10, 15, 20, 30, 45, 60}

// Doctor is the subset of the doctor record the slot engine consumes.
type Doctor struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName            string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Specialization      string    `gorm:"type:varchar(100);index" json:"specialization,omitempty"`
	SlotDurationMinutes int       `gorm:"not null;default:30" json:"slot_duration_minutes"`
	IsActive            bool      `gorm:"not null;default:true;index" json:"is_active"`
	IsAvailable         bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Schedulable reports whether the doctor should produce slots at all.
func (d *Doctor) Schedulable() bool {
	return d.IsActive && d.IsAvailable
}

// IsAllowedSlotDuration checks minutes against the allowed set.
func IsAllowedSlotDuration(minutes int, allowed []int) bool {
	for _, a := range allowed {
		if a == minutes {
			return true
		}
	}
	return false
}
