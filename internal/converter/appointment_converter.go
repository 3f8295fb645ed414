package converter

import (
	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/domain/entity"
	"clinic-slot-engine/internal/usecase"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:           appointment.ID,
		DoctorID:     appointment.DoctorID,
		SlotID:       appointment.SlotID,
		Date:         appointment.Date,
		StartTime:    appointment.StartTime,
		EndTime:      appointment.EndTime,
		PatientID:    appointment.PatientID,
		PatientName:  appointment.PatientName,
		PatientPhone: appointment.PatientPhone,
		Notes:        appointment.Notes,
		Status:       string(appointment.Status),
		CancelReason: appointment.CancelReason,
		CreatedAt:    appointment.CreatedAt,
		UpdatedAt:    appointment.UpdatedAt,
	}
}

// CreateAppointmentRequestToDraft converts the request DTO to a booking draft
func CreateAppointmentRequestToDraft(req *dto.CreateAppointmentRequest) usecase.AppointmentDraft {
	doctorID := req.DoctorID
	return usecase.AppointmentDraft{
		DoctorID:     &doctorID,
		PatientID:    req.PatientID,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		Notes:        req.Notes,
	}
}

// RegenerationToResponse converts a RegenerationResult to RegenerationResponse DTO
func RegenerationToResponse(result *usecase.RegenerationResult) *dto.RegenerationResponse {
	if result == nil {
		return nil
	}

	return &dto.RegenerationResponse{
		DoctorID:     result.DoctorID,
		Count:        result.Count,
		Created:      result.Created,
		Updated:      result.Updated,
		Deleted:      result.Deleted,
		Pruned:       result.Pruned,
		LeaveBlocked: result.LeaveBlocked,
		FailedDays:   result.FailedDays,
	}
}
