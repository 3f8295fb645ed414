package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-slot-engine/internal/converter"
	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/usecase"
	"clinic-slot-engine/pkg/response"
	"clinic-slot-engine/pkg/validator"

	"github.com/gorilla/mux"
)

// ScheduleHandler serves the schedule sources: weekly template, date overrides,
// ad-hoc blocks and leave. Each successful write answers with the regeneration
// it triggered.
type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *ScheduleHandler) SetWeeklyTemplateDay(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}
	weekday, err := strconv.Atoi(mux.Vars(r)["weekday"])
	if err != nil {
		response.BadRequest(w, "Invalid weekday, use 0 (Sunday) to 6 (Saturday)")
		return
	}

	var req dto.WeeklyTemplateDayRequest
	if !h.decode(w, r, &req) {
		return
	}

	day, result, err := h.scheduleUsecase.SetWeeklyTemplateDay(r.Context(), doctorID, weekday, &req)
	if err != nil {
		writeRegenerationError(w, err, result, "Failed to update weekly template")
		return
	}

	response.Success(w, http.StatusOK, "Weekly template updated successfully", &dto.ScheduleChangeResponse{
		Data:         converter.WeeklyTemplateDayToResponse(day),
		Regeneration: converter.RegenerationToResponse(result),
	})
}

func (h *ScheduleHandler) SetDateOverride(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.DateOverrideRequest
	if !h.decode(w, r, &req) {
		return
	}

	override, result, err := h.scheduleUsecase.SetDateOverride(r.Context(), doctorID, mux.Vars(r)["date"], &req)
	if err != nil {
		writeRegenerationError(w, err, result, "Failed to save date override")
		return
	}

	response.Success(w, http.StatusOK, "Date override saved successfully", &dto.ScheduleChangeResponse{
		Data:         converter.DateOverrideToResponse(override),
		Regeneration: converter.RegenerationToResponse(result),
	})
}

func (h *ScheduleHandler) DeleteDateOverride(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	result, err := h.scheduleUsecase.DeleteDateOverride(r.Context(), doctorID, mux.Vars(r)["date"])
	if err != nil {
		writeRegenerationError(w, err, result, "Failed to delete date override")
		return
	}

	response.Success(w, http.StatusOK, "Date override deleted successfully", &dto.ScheduleChangeResponse{
		Regeneration: converter.RegenerationToResponse(result),
	})
}

func (h *ScheduleHandler) CreateAdHocBlock(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.CreateAdHocBlockRequest
	if !h.decode(w, r, &req) {
		return
	}

	block, result, err := h.scheduleUsecase.CreateAdHocBlock(r.Context(), doctorID, &req)
	if err != nil {
		writeRegenerationError(w, err, result, "Failed to create ad-hoc block")
		return
	}

	response.Success(w, http.StatusCreated, "Ad-hoc block created successfully", &dto.ScheduleChangeResponse{
		Data:         converter.AdHocBlockToResponse(block),
		Regeneration: converter.RegenerationToResponse(result),
	})
}

func (h *ScheduleHandler) DeleteAdHocBlock(w http.ResponseWriter, r *http.Request) {
	blockID, ok := pathUUID(w, r, "id", "ad-hoc block")
	if !ok {
		return
	}

	result, err := h.scheduleUsecase.DeleteAdHocBlock(r.Context(), blockID)
	if err != nil {
		writeRegenerationError(w, err, result, "Failed to delete ad-hoc block")
		return
	}

	response.Success(w, http.StatusOK, "Ad-hoc block deleted successfully", &dto.ScheduleChangeResponse{
		Regeneration: converter.RegenerationToResponse(result),
	})
}

func (h *ScheduleHandler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if !h.decode(w, r, &req) {
		return
	}

	leave, result, err := h.scheduleUsecase.CreateLeave(r.Context(), doctorID, &req)
	if err != nil {
		writeRegenerationError(w, err, result, "Failed to create leave")
		return
	}

	response.Success(w, http.StatusCreated, "Leave created successfully", &dto.ScheduleChangeResponse{
		Data:         converter.LeaveToResponse(leave),
		Regeneration: converter.RegenerationToResponse(result),
	})
}

func (h *ScheduleHandler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := pathUUID(w, r, "id", "leave")
	if !ok {
		return
	}

	result, err := h.scheduleUsecase.DeleteLeave(r.Context(), leaveID)
	if err != nil {
		writeRegenerationError(w, err, result, "Failed to delete leave")
		return
	}

	response.Success(w, http.StatusOK, "Leave deleted successfully", &dto.ScheduleChangeResponse{
		Regeneration: converter.RegenerationToResponse(result),
	})
}

func (h *ScheduleHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return false
	}
	return true
}
