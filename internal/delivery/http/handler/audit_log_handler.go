package handler

import (
	"net/http"
	"strconv"

	"clinic-slot-engine/internal/converter"
	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/usecase"
	"clinic-slot-engine/pkg/response"
	"clinic-slot-engine/pkg/validator"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

// ListAuditLogs handles GET /admin/audit-logs?action=&entity=&entity_id=&limit=
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.AuditLogListRequest{
		Action:   q.Get("action"),
		Entity:   q.Get("entity"),
		EntityID: q.Get("entity_id"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid limit")
			return
		}
		req.Limit = limit
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	auditLogs, err := h.auditLogUsecase.ListAuditLogs(r.Context(), converter.AuditLogListRequestToFilter(&req))
	if err != nil {
		writeError(w, err, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(auditLogs),
		Total: len(auditLogs),
	})
}
