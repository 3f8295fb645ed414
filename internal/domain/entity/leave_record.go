package entity

import (
	"time"

	"github.com/google/uuid"
)

// LeaveKind distinguishes whole-day from partial-day leave
type LeaveKind string

const (
	LeaveKindFull    LeaveKind = "full"
	LeaveKindPartial LeaveKind = "partial"
)

// DefaultLeaveReason is used as block reason when a leave has none.
const DefaultLeaveReason = "Doctor on leave"

// LeaveRecord is a doctor-declared unavailability on one date.
type LeaveRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_doctor_date" json:"doctor_id"`
	Date      string    `gorm:"column:leave_date;type:varchar(10);not null;index:idx_leave_doctor_date" json:"date"`
	Kind      LeaveKind `gorm:"type:varchar(10);not null" json:"kind"`
	StartTime string    `gorm:"type:varchar(5)" json:"start_time,omitempty"`
	EndTime   string    `gorm:"type:varchar(5)" json:"end_time,omitempty"`
	Reason    string    `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LeaveRecord) TableName() string {
	return "leave_records"
}

// Validate checks kind, date and the partial-leave range.
func (l *LeaveRecord) Validate() error {
	if _, err := ParseDate(l.Date); err != nil {
		return err
	}
	switch l.Kind {
	case LeaveKindFull:
		return nil
	case LeaveKindPartial:
		if l.StartTime == "" || l.EndTime == "" {
			return ErrPartialLeaveRange
		}
		return l.Range().Validate()
	default:
		return ErrInvalidLeaveKind
	}
}

// Range returns the partial leave interval. Full leaves return an empty range.
func (l *LeaveRecord) Range() TimeRange {
	return TimeRange{Start: l.StartTime, End: l.EndTime}
}

// BlockReason is the reason copied onto slots this leave blocks.
func (l *LeaveRecord) BlockReason() string {
	if l.Reason != "" {
		return l.Reason
	}
	return DefaultLeaveReason
}

// Covers reports whether the leave blocks the given slot interval.
func (l *LeaveRecord) Covers(r TimeRange) bool {
	if l.Kind == LeaveKindFull {
		return true
	}
	return l.Range().Overlaps(r)
}
