package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one entry of the change trail. Entity and EntityID name the record
// that changed; Metadata holds its old and new values.
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Entity    string     `gorm:"type:varchar(50);not null;index:idx_audit_entity" json:"entity"`
	EntityID  string     `gorm:"type:varchar(64);not null;index:idx_audit_entity" json:"entity_id"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionSlotBlock         = "slot.block"
	AuditActionSlotUnblock       = "slot.unblock"
	AuditActionSlotRegenerate    = "slot.regenerate"
	AuditActionAppointmentCreate = "appointment.create"
	AuditActionAppointmentUpdate = "appointment.update"
	AuditActionAppointmentMove   = "appointment.reschedule"
	AuditActionScheduleUpdate    = "schedule.update"
	AuditActionLeaveCreate       = "leave.create"
	AuditActionLeaveDelete       = "leave.delete"
	AuditActionDoctorCreate      = "doctor.create"
	AuditActionDoctorUpdate      = "doctor.update"
)

const (
	DefaultAuditLogLimit = 100
	MaxAuditLogLimit     = 500
)

// AuditLogFilter narrows an audit trail query. Empty fields match everything.
type AuditLogFilter struct {
	Action   string
	Entity   string
	EntityID string
	Limit    int
}

// Normalize clamps Limit into [1, MaxAuditLogLimit], defaulting to DefaultAuditLogLimit.
func (f AuditLogFilter) Normalize() AuditLogFilter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultAuditLogLimit
	case f.Limit > MaxAuditLogLimit:
		f.Limit = MaxAuditLogLimit
	}
	return f
}

// Matches reports whether log passes the filter.
func (f AuditLogFilter) Matches(log *AuditLog) bool {
	if f.Action != "" && log.Action != f.Action {
		return false
	}
	if f.Entity != "" && log.Entity != f.Entity {
		return false
	}
	if f.EntityID != "" && log.EntityID != f.EntityID {
		return false
	}
	return true
}
