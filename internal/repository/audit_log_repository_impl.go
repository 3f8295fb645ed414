package repository

import (
	"context"

	"clinic-slot-engine/internal/domain/entity"
	domainRepo "clinic-slot-engine/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return conn(ctx, r.db).Create(log).Error
}

func (r *auditLogRepository) Find(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, error) {
	filter = filter.Normalize()
	query := conn(ctx, r.db).Model(&entity.AuditLog{})

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}

	var logs []entity.AuditLog
	err := query.Order("created_at DESC, id DESC").Limit(filter.Limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
