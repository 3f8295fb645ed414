package converter

import (
	"clinic-slot-engine/internal/delivery/dto"
	"clinic-slot-engine/internal/domain/entity"
)

// WeeklyTemplateDayToResponse converts a WeeklyTemplateDay entity to its response DTO
func WeeklyTemplateDayToResponse(day *entity.WeeklyTemplateDay) *dto.WeeklyTemplateDayResponse {
	if day == nil {
		return nil
	}

	return &dto.WeeklyTemplateDayResponse{
		DoctorID:  day.DoctorID,
		Weekday:   day.Weekday,
		Ranges:    rangesOrEmpty(day.Ranges),
		UpdatedAt: day.UpdatedAt,
	}
}

// DateOverrideToResponse converts a DateOverride entity to its response DTO
func DateOverrideToResponse(override *entity.DateOverride) *dto.DateOverrideResponse {
	if override == nil {
		return nil
	}

	return &dto.DateOverrideResponse{
		DoctorID:  override.DoctorID,
		Date:      override.Date,
		Ranges:    rangesOrEmpty(override.Ranges),
		UpdatedAt: override.UpdatedAt,
	}
}

// AdHocBlockToResponse converts an AdHocBlock entity to its response DTO
func AdHocBlockToResponse(block *entity.AdHocBlock) *dto.AdHocBlockResponse {
	if block == nil {
		return nil
	}

	return &dto.AdHocBlockResponse{
		ID:        block.ID,
		DoctorID:  block.DoctorID,
		Date:      block.Date,
		StartTime: block.StartTime,
		EndTime:   block.EndTime,
		Note:      block.Note,
		CreatedAt: block.CreatedAt,
	}
}

// LeaveToResponse converts a LeaveRecord entity to LeaveResponse DTO
func LeaveToResponse(leave *entity.LeaveRecord) *dto.LeaveResponse {
	if leave == nil {
		return nil
	}

	return &dto.LeaveResponse{
		ID:        leave.ID,
		DoctorID:  leave.DoctorID,
		Date:      leave.Date,
		Kind:      string(leave.Kind),
		StartTime: leave.StartTime,
		EndTime:   leave.EndTime,
		Reason:    leave.Reason,
		CreatedAt: leave.CreatedAt,
	}
}

// JSON clients get [] rather than null for a day off.
func rangesOrEmpty(ranges entity.TimeRanges) []entity.TimeRange {
	if ranges == nil {
		return []entity.TimeRange{}
	}
	return ranges
}
