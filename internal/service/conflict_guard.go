package service

import (
	"fmt"
	"sort"

	"clinic-slot-engine/internal/domain/entity"
)

// GuardResult is the outcome of one conflict-guard pass over a doctor-day.
type GuardResult struct {
	Accepted   []SlotCandidate
	Conflicts  int // overlapped a kept (booked or blocked) slot
	Duplicates int // same start as, or overlapping, an already accepted candidate
}

// GuardCandidates filters candidates, in the order given, against the slots that
// must survive on that day. A candidate is rejected when it overlaps a kept slot,
// when its start duplicates an accepted candidate, or when it overlaps an accepted
// candidate produced by another overlapping source. Everything else is accepted.
func GuardCandidates(candidates []SlotCandidate, kept []entity.Slot) (*GuardResult, error) {
	keptSet := &intervalSet{}
	for i := range kept {
		start, end, err := kept[i].Range().Bounds()
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", kept[i].ID, err)
		}
		keptSet.insert(start, end)
	}

	result := &GuardResult{Accepted: make([]SlotCandidate, 0, len(candidates))}
	starts := make(map[int]struct{}, len(candidates))
	accepted := &intervalSet{}

	for _, c := range candidates {
		if keptSet.overlaps(c.Start, c.End) {
			result.Conflicts++
			continue
		}
		if _, dup := starts[c.Start]; dup {
			result.Duplicates++
			continue
		}
		if accepted.overlaps(c.Start, c.End) {
			result.Duplicates++
			continue
		}
		starts[c.Start] = struct{}{}
		accepted.insert(c.Start, c.End)
		result.Accepted = append(result.Accepted, c)
	}
	return result, nil
}

// intervalSet keeps half-open intervals sorted by start. Overlap queries are a
// binary search, which is exact as long as inserted intervals do not overlap each
// other; callers only insert after a failed overlap query, or insert slots that
// already passed CheckDayInvariants.
type intervalSet struct {
	items []interval
}

type interval struct {
	start, end int
}

func (s *intervalSet) overlaps(start, end int) bool {
	// first interval whose end is past start; ends are sorted because items are disjoint
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].end > start })
	return i < len(s.items) && s.items[i].start < end
}

func (s *intervalSet) insert(start, end int) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].start >= start })
	s.items = append(s.items, interval{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = interval{start: start, end: end}
}

// CheckDayInvariants verifies the persisted slots of one doctor-day: no two slots
// overlap, and appointment IDs are set exactly on booked slots.
func CheckDayInvariants(slots []entity.Slot) error {
	type bounded struct {
		slot       *entity.Slot
		start, end int
	}
	items := make([]bounded, 0, len(slots))
	for i := range slots {
		s := &slots[i]
		if s.IsBooked() != (s.AppointmentID != nil) {
			return fmt.Errorf("%w: slot %s is %s with appointment %v", entity.ErrInvariantViolation, s.ID, s.Status, s.AppointmentID)
		}
		start, end, err := s.Range().Bounds()
		if err != nil {
			return fmt.Errorf("%w: slot %s has malformed range %s", entity.ErrInvariantViolation, s.ID, s.Range())
		}
		items = append(items, bounded{slot: s, start: start, end: end})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].start < items[j].start })

	maxEnd := -1
	var maxSlot *entity.Slot
	for _, it := range items {
		if it.start < maxEnd {
			return fmt.Errorf("%w: slots %s and %s overlap on %s", entity.ErrInvariantViolation, maxSlot.ID, it.slot.ID, it.slot.Date)
		}
		if it.end > maxEnd {
			maxEnd = it.end
			maxSlot = it.slot
		}
	}
	return nil
}
