package handler

import (
	"encoding/json"
	"net/http"

	"clinic-slot-engine/internal/converter"
	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/usecase"
	"clinic-slot-engine/pkg/response"
	"clinic-slot-engine/pkg/validator"

	"github.com/google/uuid"
)

type SlotHandler struct {
	slotUsecase         usecase.SlotUsecase
	regenerationUsecase usecase.SlotRegenerationUsecase
	validator           *validator.CustomValidator
}

func NewSlotHandler(slotUsecase usecase.SlotUsecase, regenerationUsecase usecase.SlotRegenerationUsecase, validator *validator.CustomValidator) *SlotHandler {
	return &SlotHandler{
		slotUsecase:         slotUsecase,
		regenerationUsecase: regenerationUsecase,
		validator:           validator,
	}
}

// ListSlots handles GET /slots?doctor_id=&date=&from=&to=&status=
func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := dto.SlotListRequest{
		DoctorID: q.Get("doctor_id"),
		Date:     q.Get("date"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Status:   q.Get("status"),
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	filter := entity.SlotFilter{
		Date:   req.Date,
		From:   req.From,
		To:     req.To,
		Status: entity.SlotStatus(req.Status),
	}
	if req.DoctorID != "" {
		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			response.BadRequest(w, "Invalid doctor ID")
			return
		}
		filter.DoctorID = &doctorID
	}

	slots, err := h.slotUsecase.ListSlots(r.Context(), filter)
	if err != nil {
		writeError(w, err, "Failed to get slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	})
}

func (h *SlotHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	slotID, ok := pathUUID(w, r, "id", "slot")
	if !ok {
		return
	}

	slot, err := h.slotUsecase.GetSlot(r.Context(), slotID)
	if err != nil {
		writeError(w, err, "Failed to get slot")
		return
	}

	response.Success(w, http.StatusOK, "Slot retrieved successfully", converter.SlotToResponse(slot))
}

// UpdateSlotStatus handles the admin block/unblock of one slot.
func (h *SlotHandler) UpdateSlotStatus(w http.ResponseWriter, r *http.Request) {
	slotID, ok := pathUUID(w, r, "id", "slot")
	if !ok {
		return
	}

	var req dto.UpdateSlotStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slot, err := h.slotUsecase.UpdateSlotStatus(r.Context(), slotID, entity.SlotStatus(req.Status), req.BlockReason)
	if err != nil {
		writeError(w, err, "Failed to update slot")
		return
	}

	response.Success(w, http.StatusOK, "Slot updated successfully", converter.SlotToResponse(slot))
}

// Regenerate rebuilds a doctor's slots on demand.
func (h *SlotHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	result, err := h.regenerationUsecase.Regenerate(r.Context(), doctorID)
	if err != nil {
		writeRegenerationError(w, err, result, "Failed to regenerate slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots regenerated successfully", converter.RegenerationToResponse(result))
}
