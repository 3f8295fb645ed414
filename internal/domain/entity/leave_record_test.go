package entity

import (
	"errors"
	"testing"
)

func TestLeaveRecord_Validate(t *testing.T) {
	tests := []struct {
		name  string
		leave LeaveRecord
		want  error
	}{
		{"full", LeaveRecord{Date: "2026-10-19", Kind: LeaveKindFull}, nil},
		{"partial", LeaveRecord{Date: "2026-10-19", Kind: LeaveKindPartial, StartTime: "10:00", EndTime: "11:00"}, nil},
		{"partial without range", LeaveRecord{Date: "2026-10-19", Kind: LeaveKindPartial}, ErrPartialLeaveRange},
		{"partial inverted", LeaveRecord{Date: "2026-10-19", Kind: LeaveKindPartial, StartTime: "11:00", EndTime: "10:00"}, ErrInvalidTimeRange},
		{"bad kind", LeaveRecord{Date: "2026-10-19", Kind: "half"}, ErrInvalidLeaveKind},
		{"bad date", LeaveRecord{Date: "tomorrow", Kind: LeaveKindFull}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.leave.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLeaveRecord_Covers(t *testing.T) {
	full := LeaveRecord{Kind: LeaveKindFull}
	if !full.Covers(TimeRange{Start: "09:00", End: "09:30"}) {
		t.Error("full leave should cover every slot")
	}

	partial := LeaveRecord{Kind: LeaveKindPartial, StartTime: "10:00", EndTime: "11:00"}
	if !partial.Covers(TimeRange{Start: "10:30", End: "11:00"}) {
		t.Error("partial leave should cover 10:30-11:00")
	}
	if partial.Covers(TimeRange{Start: "11:00", End: "11:30"}) {
		t.Error("partial leave should not cover 11:00-11:30")
	}
	if partial.Covers(TimeRange{Start: "09:30", End: "10:00"}) {
		t.Error("partial leave should not cover 09:30-10:00")
	}
}

func TestLeaveRecord_BlockReason(t *testing.T) {
	l := LeaveRecord{Kind: LeaveKindFull}
	if l.BlockReason() != DefaultLeaveReason {
		t.Errorf("expected default reason, got %q", l.BlockReason())
	}
	l.Reason = "Conference"
	if l.BlockReason() != "Conference" {
		t.Errorf("expected Conference, got %q", l.BlockReason())
	}
}
