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
)

type AppointmentHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewAppointmentHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.Book(r.Context(), req.SlotID, converter.CreateAppointmentRequestToDraft(&req))
	if err != nil {
		writeError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", converter.AppointmentToResponse(appointment))
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.bookingUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", converter.AppointmentToResponse(appointment))
}

// UpdateAppointment changes the status or reschedules, never both.
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}
	if (req.Status == "") == (req.NewSlotID == nil) {
		response.BadRequest(w, "Provide either status or new_slot_id")
		return
	}

	ctx := r.Context()
	var (
		appointment *entity.Appointment
		err         error
	)
	if req.NewSlotID != nil {
		appointment, err = h.bookingUsecase.Reschedule(ctx, appointmentID, *req.NewSlotID, usecase.RescheduleOptions{
			AllowDoctorChange: req.AllowDoctorChange,
		})
	} else {
		switch entity.AppointmentStatus(req.Status) {
		case entity.AppointmentStatusConfirmed:
			appointment, err = h.bookingUsecase.Confirm(ctx, appointmentID)
		case entity.AppointmentStatusCompleted:
			appointment, err = h.bookingUsecase.Complete(ctx, appointmentID)
		case entity.AppointmentStatusCancelled:
			appointment, err = h.bookingUsecase.Cancel(ctx, appointmentID, req.CancelReason)
		case entity.AppointmentStatusNoShow:
			appointment, err = h.bookingUsecase.MarkNoShow(ctx, appointmentID)
		default:
			err = usecase.ErrUnsupportedStatus
		}
	}
	if err != nil {
		writeError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", converter.AppointmentToResponse(appointment))
}
