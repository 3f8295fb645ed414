package converter

import (
	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/domain/entity"
)

func AuditLogListRequestToFilter(req *dto.AuditLogListRequest) entity.AuditLogFilter {
	return entity.AuditLogFilter{
		Action:   req.Action,
		Entity:   req.Entity,
		EntityID: req.EntityID,
		Limit:    req.Limit,
	}
}

func AuditLogToResponse(log *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:        log.ID,
		UserID:    log.UserID,
		Action:    log.Action,
		Entity:    log.Entity,
		EntityID:  log.EntityID,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
}

// AuditLogsToResponses never returns nil so an empty trail encodes as [].
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, AuditLogToResponse(&logs[i]))
	}
	return responses
}
