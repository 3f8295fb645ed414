package entity

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"9:30", 0, true},
		{"09:60", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ParseClock(%q): expected validation error, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTimeRange_Bounds(t *testing.T) {
	start, end, err := TimeRange{Start: "22:00", End: "24:00"}.Bounds()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 1320 || end != 1440 {
		t.Errorf("expected 1320-1440, got %d-%d", start, end)
	}

	for _, r := range []TimeRange{
		{Start: "10:00", End: "10:00"},
		{Start: "11:00", End: "10:00"},
		{Start: "24:00", End: "24:00"},
	} {
		if _, _, err := r.Bounds(); !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("range %s: expected ErrInvalidTimeRange, got %v", r, err)
		}
	}
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := TimeRange{Start: "09:00", End: "10:00"}
	tests := []struct {
		other TimeRange
		want  bool
	}{
		{TimeRange{Start: "09:30", End: "10:30"}, true},
		{TimeRange{Start: "08:00", End: "09:01"}, true},
		{TimeRange{Start: "10:00", End: "11:00"}, false},
		{TimeRange{Start: "08:00", End: "09:00"}, false},
		{TimeRange{Start: "09:15", End: "09:45"}, true},
	}
	for _, tt := range tests {
		if got := base.Overlaps(tt.other); got != tt.want {
			t.Errorf("%s overlaps %s = %v, want %v", base, tt.other, got, tt.want)
		}
	}
}

func TestTimeRanges_ValueScan(t *testing.T) {
	var nilRanges TimeRanges
	v, err := nilRanges.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "[]" {
		t.Errorf("expected nil ranges to store as [], got %v", v)
	}

	var scanned TimeRanges
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scanned == nil || len(scanned) != 0 {
		t.Errorf("expected empty non-nil ranges, got %#v", scanned)
	}

	if err := scanned.Scan([]byte(`[{"start":"09:00","end":"12:00"}]`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scanned) != 1 || scanned[0].Start != "09:00" || scanned[0].End != "12:00" {
		t.Errorf("unexpected scan result: %#v", scanned)
	}

	if err := scanned.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-10-19"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseDate("19/10/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
