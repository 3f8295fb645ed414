package service

import (
	"sort"

	"clinic-slot-engine/internal/domain/entity"
)

// LeaveIndex groups a doctor's leave records by date. Within a date full leaves come
// first, then partial leaves by start time, so the reason picked for a slot does
// not depend on storage order.
type LeaveIndex struct {
	byDate map[string][]entity.LeaveRecord
}

// NewLeaveIndex indexes leaves by date.
func NewLeaveIndex(leaves []entity.LeaveRecord) *LeaveIndex {
	idx := &LeaveIndex{byDate: make(map[string][]entity.LeaveRecord)}
	for _, l := range leaves {
		idx.byDate[l.Date] = append(idx.byDate[l.Date], l)
	}
	for _, list := range idx.byDate {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Kind != list[j].Kind {
				return list[i].Kind == entity.LeaveKindFull
			}
			if list[i].StartTime != list[j].StartTime {
				return list[i].StartTime < list[j].StartTime
			}
			return list[i].ID.String() < list[j].ID.String()
		})
	}
	return idx
}

// Match returns the leave that blocks r on date, or nil.
func (idx *LeaveIndex) Match(date string, r entity.TimeRange) *entity.LeaveRecord {
	if idx == nil {
		return nil
	}
	for i := range idx.byDate[date] {
		l := &idx.byDate[date][i]
		if l.Covers(r) {
			return l
		}
	}
	return nil
}

// BlockChange returns the status change that blocks an available slot covered by a
// leave. ok is false when the slot is not available or no leave covers it; booked
// slots are never touched.
func (idx *LeaveIndex) BlockChange(slot *entity.Slot) (change entity.SlotStatusChange, ok bool) {
	if !slot.IsAvailable() {
		return entity.SlotStatusChange{}, false
	}
	leave := idx.Match(slot.Date, slot.Range())
	if leave == nil {
		return entity.SlotStatusChange{}, false
	}
	return entity.SlotStatusChange{
		From:        entity.SlotStatusAvailable,
		To:          entity.SlotStatusBlocked,
		BlockReason: leave.BlockReason(),
		BlockSource: entity.BlockSourceLeave,
	}, true
}

// Apply blocks, in place, every available slot covered by a leave and returns how
// many slots changed.
func (idx *LeaveIndex) Apply(slots []*entity.Slot) int {
	changed := 0
	for _, s := range slots {
		if change, ok := idx.BlockChange(s); ok {
			change.Apply(s)
			changed++
		}
	}
	return changed
}
