package usecase

import (
	"testing"
	"time"
)

func TestHorizon_LocalDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 20:00 UTC on Sunday is already Monday in Jakarta
	now := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	h := NewHorizon(3, jakarta, func() time.Time { return now })

	from, to := h.Bounds()
	if from != "2026-10-19" || to != "2026-10-21" {
		t.Errorf("expected 2026-10-19..2026-10-21, got %s..%s", from, to)
	}

	dates := h.Dates()
	if len(dates) != 3 || dates[0].Weekday() != time.Monday {
		t.Errorf("unexpected dates %v", dates)
	}

	if !h.IsPast("2026-10-18") {
		t.Error("2026-10-18 should be past")
	}
	if h.IsPast("2026-10-19") {
		t.Error("today is not past")
	}
}

func TestNewHorizon_Defaults(t *testing.T) {
	h := NewHorizon(0, nil, nil)
	if h.Days != DefaultHorizonDays || h.Location == nil || h.Now == nil {
		t.Errorf("defaults not applied: %+v", h)
	}
}
