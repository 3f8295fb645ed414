package handler

import (
	"encoding/json"
	"net/http"

	"clinic-slot-engine/internal/converter"
	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/usecase"
	"clinic-slot-engine/pkg/response"
	"clinic-slot-engine/pkg/validator"
)

type DoctorHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	validator       *validator.CustomValidator
}

func NewDoctorHandler(scheduleUsecase usecase.ScheduleUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.scheduleUsecase.CreateDoctor(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", converter.DoctorToResponse(doctor))
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	doctor, err := h.scheduleUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", converter.DoctorToResponse(doctor))
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.scheduleUsecase.ListDoctors(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	})
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, result, err := h.scheduleUsecase.UpdateDoctor(r.Context(), doctorID, &req)
	if err != nil {
		writeRegenerationError(w, err, result, "Failed to update doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", &dto.ScheduleChangeResponse{
		Data:         converter.DoctorToResponse(doctor),
		Regeneration: converter.RegenerationToResponse(result),
	})
}
