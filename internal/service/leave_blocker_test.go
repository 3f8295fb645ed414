package service

import (
	"testing"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

func daySlots(date string, d int, r entity.TimeRange) []*entity.Slot {
	candidates, _ := SliceRange(r, d)
	slots := make([]*entity.Slot, 0, len(candidates))
	for _, c := range candidates {
		slots = append(slots, &entity.Slot{
			ID:        uuid.New(),
			Date:      date,
			StartTime: c.StartTime(),
			EndTime:   c.EndTime(),
			Label:     c.Label,
			Status:    entity.SlotStatusAvailable,
		})
	}
	return slots
}

func TestLeaveIndex_FullLeaveSkipsBooked(t *testing.T) {
	slots := daySlots("2026-10-19", 30, entity.TimeRange{Start: "09:00", End: "13:00"})
	apptID := uuid.New()
	slots[2].Status = entity.SlotStatusBooked
	slots[2].AppointmentID = &apptID

	idx := NewLeaveIndex([]entity.LeaveRecord{{ID: uuid.New(), Date: "2026-10-19", Kind: entity.LeaveKindFull}})
	changed := idx.Apply(slots)
	if changed != 7 {
		t.Errorf("expected 7 slots blocked, got %d", changed)
	}
	for _, s := range slots {
		if s.ID == slots[2].ID {
			if !s.IsBooked() {
				t.Error("booked slot must stay booked")
			}
			continue
		}
		if !s.IsBlocked() || s.BlockSource != entity.BlockSourceLeave || s.BlockReason != entity.DefaultLeaveReason {
			t.Errorf("slot %s: expected leave block, got %s %q %q", s.StartTime, s.Status, s.BlockSource, s.BlockReason)
		}
	}
}

func TestLeaveIndex_PartialLeave(t *testing.T) {
	slots := daySlots("2026-10-19", 30, entity.TimeRange{Start: "09:00", End: "13:00"})
	idx := NewLeaveIndex([]entity.LeaveRecord{{
		ID: uuid.New(), Date: "2026-10-19", Kind: entity.LeaveKindPartial,
		StartTime: "10:00", EndTime: "11:00", Reason: "Meeting",
	}})

	if changed := idx.Apply(slots); changed != 2 {
		t.Fatalf("expected 2 slots blocked, got %d", changed)
	}
	for _, s := range slots {
		inLeave := s.StartTime == "10:00" || s.StartTime == "10:30"
		if inLeave != s.IsBlocked() {
			t.Errorf("slot %s: blocked=%v, want %v", s.StartTime, s.IsBlocked(), inLeave)
		}
		if inLeave && s.BlockReason != "Meeting" {
			t.Errorf("slot %s: expected reason Meeting, got %q", s.StartTime, s.BlockReason)
		}
	}
}

func TestLeaveIndex_OtherDateUntouched(t *testing.T) {
	slots := daySlots("2026-10-20", 30, entity.TimeRange{Start: "09:00", End: "10:00"})
	idx := NewLeaveIndex([]entity.LeaveRecord{{ID: uuid.New(), Date: "2026-10-19", Kind: entity.LeaveKindFull}})
	if changed := idx.Apply(slots); changed != 0 {
		t.Errorf("expected no change, got %d", changed)
	}
}

func TestLeaveIndex_FullLeaveReasonWins(t *testing.T) {
	idx := NewLeaveIndex([]entity.LeaveRecord{
		{ID: uuid.New(), Date: "2026-10-19", Kind: entity.LeaveKindPartial, StartTime: "09:00", EndTime: "10:00", Reason: "Partial"},
		{ID: uuid.New(), Date: "2026-10-19", Kind: entity.LeaveKindFull, Reason: "Sick"},
	})
	leave := idx.Match("2026-10-19", entity.TimeRange{Start: "09:00", End: "09:30"})
	if leave == nil || leave.Reason != "Sick" {
		t.Errorf("expected full leave to match first, got %+v", leave)
	}
}

func TestLeaveIndex_NilIndex(t *testing.T) {
	var idx *LeaveIndex
	if idx.Match("2026-10-19", entity.TimeRange{Start: "09:00", End: "09:30"}) != nil {
		t.Error("nil index should match nothing")
	}
}
