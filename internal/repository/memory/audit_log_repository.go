package memory

import (
	"context"
	"time"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"
)

type auditLogRepository struct {
	store *Store
}

func NewAuditLogRepository(store *Store) domainRepo.AuditLogRepository {
	return &auditLogRepository{store: store}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	defer r.store.lock(ctx)()
	log.ID = int64(len(r.store.auditLogs) + 1)
	log.CreatedAt = time.Now()
	r.store.auditLogs = append(r.store.auditLogs, *log)
	return nil
}

func (r *auditLogRepository) Find(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, error) {
	defer r.store.lock(ctx)()
	filter = filter.Normalize()

	logs := make([]entity.AuditLog, 0, filter.Limit)
	for i := len(r.store.auditLogs) - 1; i >= 0 && len(logs) < filter.Limit; i-- {
		if filter.Matches(&r.store.auditLogs[i]) {
			logs = append(logs, r.store.auditLogs[i])
		}
	}
	return logs, nil
}
