package usecase

import (
	"time"

	"clinic-slot-engine/internal/domain/entity"
)

// DefaultHorizonDays is the rolling window of materialized slots.
const DefaultHorizonDays = 60

// Horizon is the rolling window [today, today+Days) in the clinic timezone.
type Horizon struct {
	Days     int
	Location *time.Location
	Now      func() time.Time
}

// NewHorizon fills zero values with defaults.
func NewHorizon(days int, loc *time.Location, now func() time.Time) Horizon {
	if days <= 0 {
		days = DefaultHorizonDays
	}
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return Horizon{Days: days, Location: loc, Now: now}
}

// Today is the local calendar date at midnight.
func (h Horizon) Today() time.Time {
	now := h.Now().In(h.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.Location)
}

// Dates lists every day in the window.
func (h Horizon) Dates() []time.Time {
	today := h.Today()
	dates := make([]time.Time, h.Days)
	for i := range dates {
		dates[i] = today.AddDate(0, 0, i)
	}
	return dates
}

// Bounds returns the first and last ISO date of the window, inclusive.
func (h Horizon) Bounds() (from, to string) {
	today := h.Today()
	return entity.FormatDate(today), entity.FormatDate(today.AddDate(0, 0, h.Days-1))
}

// IsPast reports whether an ISO date is before today.
func (h Horizon) IsPast(date string) bool {
	return date < entity.FormatDate(h.Today())
}
