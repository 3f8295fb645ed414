package dto

import (
	"time"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type AuditLogListRequest struct {
	Action   string `validate:"omitempty,max=100"`
	Entity   string `validate:"omitempty,max=50"`
	EntityID string `validate:"omitempty,max=64"`
	Limit    int    `validate:"omitempty,min=1,max=500"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	UserID    *uuid.UUID  `json:"user_id,omitempty"`
	Action    string      `json:"action"`
	Entity    string      `json:"entity"`
	EntityID  string      `json:"entity_id"`
	Metadata  entity.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
