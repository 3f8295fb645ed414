package usecase

import (
	"context"

	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// AuditLogUsecase reads the change trail written by the other usecases.
type AuditLogUsecase interface {
	ListAuditLogs(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(log *logrus.Logger, auditLogRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// ListAuditLogs returns the newest entries first. An entity ID without an entity
// name is ambiguous across tables and is rejected.
func (u *auditLogUsecase) ListAuditLogs(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, error) {
	if filter.EntityID != "" && filter.Entity == "" {
		return nil, ErrAuditEntityRequired
	}

	logs, err := u.auditLogRepo.Find(ctx, filter.Normalize())
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}
	return logs, nil
}
