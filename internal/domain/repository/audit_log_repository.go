package repository

import (
	"context"

	"clinic-slot-engine/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	// Find returns matching entries newest first, at most filter.Limit of them.
	Find(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, error)
}
