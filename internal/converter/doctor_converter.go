package converter

import (
	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                  doctor.ID,
		FullName:            doctor.FullName,
		Specialization:      doctor.Specialization,
		SlotDurationMinutes: doctor.SlotDurationMinutes,
		IsActive:            doctor.IsActive,
		IsAvailable:         doctor.IsAvailable,
		CreatedAt:           doctor.CreatedAt,
		UpdatedAt:           doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
