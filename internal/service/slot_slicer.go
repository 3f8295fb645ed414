package service

import (
	"time"

	"clinic-slot-engine/internal/domain/entity"
)

// SlotCandidate is one fixed-duration interval cut from a working range, in
// minutes since midnight.
type SlotCandidate struct {
	Start int
	End   int
	Label string
}

// StartTime returns the candidate start as HH:MM.
func (c SlotCandidate) StartTime() string {
	return entity.FormatClock(c.Start)
}

// EndTime returns the candidate end as HH:MM.
func (c SlotCandidate) EndTime() string {
	return entity.FormatClock(c.End)
}

// SliceRange cuts r into [start, start+d) candidates stepping by d from the range
// start. A trailing remainder shorter than d is dropped.
func SliceRange(r entity.TimeRange, durationMinutes int) ([]SlotCandidate, error) {
	if durationMinutes <= 0 {
		return nil, entity.ErrInvalidSlotDuration
	}
	start, end, err := r.Bounds()
	if err != nil {
		return nil, err
	}

	candidates := make([]SlotCandidate, 0, (end-start)/durationMinutes)
	for s := start; s+durationMinutes <= end; s += durationMinutes {
		e := s + durationMinutes
		candidates = append(candidates, SlotCandidate{Start: s, End: e, Label: FormatSlotLabel(s, e)})
	}
	return candidates, nil
}

// SliceRanges slices every range in order and flattens the result.
func SliceRanges(ranges []entity.TimeRange, durationMinutes int) ([]SlotCandidate, error) {
	var all []SlotCandidate
	for _, r := range ranges {
		candidates, err := SliceRange(r, durationMinutes)
		if err != nil {
			return nil, err
		}
		all = append(all, candidates...)
	}
	return all, nil
}

// FormatSlotLabel renders "9:00 AM - 9:30 AM".
func FormatSlotLabel(start, end int) string {
	return formatClock12(start) + " - " + formatClock12(end)
}

func formatClock12(minutes int) string {
	return time.Date(2000, 1, 1, 0, minutes, 0, 0, time.UTC).Format("3:04 PM")
}
