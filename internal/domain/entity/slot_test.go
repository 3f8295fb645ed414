package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestSlotStatusChange_Matches(t *testing.T) {
	apptID := uuid.New()
	other := uuid.New()

	booked := &Slot{Status: SlotStatusBooked, AppointmentID: &apptID}
	available := &Slot{Status: SlotStatusAvailable}

	tests := []struct {
		name   string
		change SlotStatusChange
		slot   *Slot
		want   bool
	}{
		{"available claim", SlotStatusChange{From: SlotStatusAvailable, To: SlotStatusBooked}, available, true},
		{"wrong from", SlotStatusChange{From: SlotStatusAvailable, To: SlotStatusBooked}, booked, false},
		{"release own appointment", SlotStatusChange{From: SlotStatusBooked, To: SlotStatusAvailable, AppointmentID: &apptID}, booked, true},
		{"release other appointment", SlotStatusChange{From: SlotStatusBooked, To: SlotStatusAvailable, AppointmentID: &other}, booked, false},
		{"release any appointment", SlotStatusChange{From: SlotStatusBooked, To: SlotStatusAvailable}, booked, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.change.Matches(tt.slot); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSlotStatusChange_Apply(t *testing.T) {
	apptID := uuid.New()
	s := &Slot{Status: SlotStatusAvailable}

	SlotStatusChange{From: SlotStatusAvailable, To: SlotStatusBooked, AppointmentID: &apptID}.Apply(s)
	if !s.IsBooked() || s.AppointmentID == nil || *s.AppointmentID != apptID {
		t.Fatalf("expected slot booked by %s, got %+v", apptID, s)
	}

	apptID = uuid.New()
	if *s.AppointmentID == apptID {
		t.Error("slot should hold its own copy of the appointment id")
	}

	SlotStatusChange{From: SlotStatusBooked, To: SlotStatusBlocked, BlockReason: "Leave", BlockSource: BlockSourceLeave}.Apply(s)
	if !s.IsBlocked() || s.AppointmentID != nil {
		t.Errorf("expected blocked slot without appointment, got %+v", s)
	}
	if s.BlockReason != "Leave" || s.BlockSource != BlockSourceLeave {
		t.Errorf("unexpected block fields: %q %q", s.BlockReason, s.BlockSource)
	}

	SlotStatusChange{From: SlotStatusBlocked, To: SlotStatusAvailable}.Apply(s)
	if !s.IsAvailable() || s.BlockReason != "" || s.BlockSource != BlockSourceNone {
		t.Errorf("expected clean available slot, got %+v", s)
	}
}
