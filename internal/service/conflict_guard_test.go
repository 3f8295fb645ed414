package service

import (
	"errors"
	"testing"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

func candidatesFor(t *testing.T, d int, ranges ...entity.TimeRange) []SlotCandidate {
	t.Helper()
	c, err := SliceRanges(ranges, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestGuardCandidates_KeptSlotsWin(t *testing.T) {
	apptID := uuid.New()
	kept := []entity.Slot{
		{ID: uuid.New(), StartTime: "09:00", EndTime: "09:30", Status: entity.SlotStatusBooked, AppointmentID: &apptID},
		{ID: uuid.New(), StartTime: "10:15", EndTime: "10:45", Status: entity.SlotStatusBlocked},
	}

	result, err := GuardCandidates(candidatesFor(t, 30, entity.TimeRange{Start: "09:00", End: "12:00"}), kept)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 09:00 collides with the booked slot, 10:00 and 10:30 with the blocked one.
	if result.Conflicts != 3 {
		t.Errorf("expected 3 conflicts, got %d", result.Conflicts)
	}
	if len(result.Accepted) != 3 {
		t.Fatalf("expected 3 accepted, got %d", len(result.Accepted))
	}
	for _, c := range result.Accepted {
		if c.StartTime() == "09:00" || c.StartTime() == "10:00" || c.StartTime() == "10:30" {
			t.Errorf("candidate %s should have been rejected", c.StartTime())
		}
	}
}

func TestGuardCandidates_DuplicateAndOverlappingSources(t *testing.T) {
	candidates := candidatesFor(t, 30,
		entity.TimeRange{Start: "09:00", End: "10:00"},
		entity.TimeRange{Start: "09:00", End: "10:00"},
		entity.TimeRange{Start: "09:15", End: "10:15"},
	)

	result, err := GuardCandidates(candidates, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Accepted) != 2 {
		t.Errorf("expected 2 accepted, got %d", len(result.Accepted))
	}
	if result.Duplicates != 4 {
		t.Errorf("expected 4 duplicates, got %d", result.Duplicates)
	}
}

func TestGuardCandidates_MalformedKeptSlot(t *testing.T) {
	kept := []entity.Slot{{ID: uuid.New(), StartTime: "bad", EndTime: "09:30"}}
	if _, err := GuardCandidates(nil, kept); err == nil {
		t.Fatal("expected error for malformed kept slot")
	}
}

func TestCheckDayInvariants(t *testing.T) {
	apptID := uuid.New()

	tests := []struct {
		name    string
		slots   []entity.Slot
		wantErr bool
	}{
		{
			name: "clean day",
			slots: []entity.Slot{
				{ID: uuid.New(), StartTime: "09:30", EndTime: "10:00", Status: entity.SlotStatusAvailable},
				{ID: uuid.New(), StartTime: "09:00", EndTime: "09:30", Status: entity.SlotStatusBooked, AppointmentID: &apptID},
			},
		},
		{
			name: "overlap",
			slots: []entity.Slot{
				{ID: uuid.New(), StartTime: "09:00", EndTime: "10:00", Status: entity.SlotStatusAvailable},
				{ID: uuid.New(), StartTime: "09:30", EndTime: "10:00", Status: entity.SlotStatusAvailable},
			},
			wantErr: true,
		},
		{
			name: "overlap hidden behind a long slot",
			slots: []entity.Slot{
				{ID: uuid.New(), StartTime: "09:00", EndTime: "12:00", Status: entity.SlotStatusBlocked},
				{ID: uuid.New(), StartTime: "09:30", EndTime: "10:00", Status: entity.SlotStatusAvailable},
				{ID: uuid.New(), StartTime: "11:00", EndTime: "11:30", Status: entity.SlotStatusAvailable},
			},
			wantErr: true,
		},
		{
			name:    "booked without appointment",
			slots:   []entity.Slot{{ID: uuid.New(), StartTime: "09:00", EndTime: "09:30", Status: entity.SlotStatusBooked}},
			wantErr: true,
		},
		{
			name:    "available with appointment",
			slots:   []entity.Slot{{ID: uuid.New(), StartTime: "09:00", EndTime: "09:30", Status: entity.SlotStatusAvailable, AppointmentID: &apptID}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDayInvariants(tt.slots)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, entity.ErrInvariantViolation) {
				t.Errorf("expected invariant violation, got %v", err)
			}
		})
	}
}
