package usecase

import (
	"fmt"

	"clinic-slot-engine/internal/domain/entity"
)

var (
	ErrDoctorNotFound       = fmt.Errorf("%w: doctor not found", entity.ErrNotFound)
	ErrSlotNotFound         = fmt.Errorf("%w: slot not found", entity.ErrNotFound)
	ErrAppointmentNotFound  = fmt.Errorf("%w: appointment not found", entity.ErrNotFound)
	ErrLeaveNotFound        = fmt.Errorf("%w: leave record not found", entity.ErrNotFound)
	ErrAdHocBlockNotFound   = fmt.Errorf("%w: ad-hoc block not found", entity.ErrNotFound)
	ErrDateOverrideNotFound = fmt.Errorf("%w: date override not found", entity.ErrNotFound)
)

var (
	ErrSlotNotAvailable     = fmt.Errorf("%w: slot is not available", entity.ErrConflict)
	ErrSlotBooked           = fmt.Errorf("%w: slot is booked", entity.ErrConflict)
	ErrSlotAlreadyBlocked   = fmt.Errorf("%w: slot is already blocked", entity.ErrConflict)
	ErrSlotNotBlocked       = fmt.Errorf("%w: slot is not blocked", entity.ErrConflict)
	ErrAppointmentNotActive = fmt.Errorf("%w: appointment is no longer active", entity.ErrConflict)
	ErrDaySlotsChanged      = fmt.Errorf("%w: slots changed during regeneration", entity.ErrConflict)
)

var (
	ErrSlotDoctorMismatch     = fmt.Errorf("%w: slot does not belong to the requested doctor", entity.ErrValidation)
	ErrDoctorChangeNotAllowed = fmt.Errorf("%w: new slot belongs to another doctor", entity.ErrValidation)
	ErrSameSlot               = fmt.Errorf("%w: appointment already holds this slot", entity.ErrValidation)
	ErrSlotInPast             = fmt.Errorf("%w: cannot book a past slot", entity.ErrValidation)
	ErrCannotSetBooked        = fmt.Errorf("%w: slots are booked through appointments only", entity.ErrValidation)
	ErrUnsupportedStatus      = fmt.Errorf("%w: unsupported status transition", entity.ErrValidation)
	ErrAuditEntityRequired    = fmt.Errorf("%w: entity_id filter needs entity", entity.ErrValidation)
)

// ErrSlotBindingBroken means an active appointment's slot is not booked for it.
var ErrSlotBindingBroken = fmt.Errorf("%w: booked slot does not reference the appointment", entity.ErrInvariantViolation)
