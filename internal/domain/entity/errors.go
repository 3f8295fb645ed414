package entity

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the slot engine wraps exactly one of these,
// so callers can classify with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Validation errors for schedule sources
var (
	ErrInvalidClock        = fmt.Errorf("%w: invalid time format, use HH:MM", ErrValidation)
	ErrInvalidDate         = fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", ErrValidation)
	ErrInvalidTimeRange    = fmt.Errorf("%w: time range start must be before end", ErrValidation)
	ErrInvalidWeekday      = fmt.Errorf("%w: weekday must be between 0 (Sunday) and 6 (Saturday)", ErrValidation)
	ErrInvalidLeaveKind    = fmt.Errorf("%w: leave kind must be full or partial", ErrValidation)
	ErrPartialLeaveRange   = fmt.Errorf("%w: partial leave requires a start and end time", ErrValidation)
	ErrInvalidSlotDuration = fmt.Errorf("%w: slot duration is not in the allowed set", ErrValidation)
)
