package converter

import (
	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/domain/entity"
)

// SlotToResponse converts a Slot entity to SlotResponse DTO
func SlotToResponse(slot *entity.Slot) *dto.SlotResponse {
	if slot == nil {
		return nil
	}

	return &dto.SlotResponse{
		ID:            slot.ID,
		DoctorID:      slot.DoctorID,
		Date:          slot.Date,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		Label:         slot.Label,
		Status:        string(slot.Status),
		AppointmentID: slot.AppointmentID,
		BlockReason:   slot.BlockReason,
		BlockSource:   string(slot.BlockSource),
		UpdatedAt:     slot.UpdatedAt,
	}
}

// SlotsToResponses converts a slice of Slot entities to slice of SlotResponse DTOs
func SlotsToResponses(slots []entity.Slot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		responses[i] = *SlotToResponse(&slots[i])
	}
	return responses
}
