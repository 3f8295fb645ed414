package service

import (
	"testing"
	"time"

	"clinic-slot-engine/internal/domain/entity"

	"github.com/google/uuid"
)

// ---------- Helper ----------

func newTestDoctor() *entity.Doctor {
	return &entity.Doctor{
		ID:                  uuid.New(),
		FullName:            "Dr. Test",
		SlotDurationMinutes: 30,
		IsActive:            true,
		IsAvailable:         true,
	}
}

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func mondayTemplate(doctorID uuid.UUID, ranges ...entity.TimeRange) *entity.WeeklyTemplate {
	return entity.NewWeeklyTemplate(doctorID, []entity.WeeklyTemplateDay{
		{DoctorID: doctorID, Weekday: int(time.Monday), Ranges: ranges},
	})
}

func rangesEqual(got []entity.TimeRange, want ...entity.TimeRange) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// ---------- Tests ----------

func TestResolveWorkingRanges_Template(t *testing.T) {
	doctor := newTestDoctor()
	sources := entity.NewScheduleSources(mondayTemplate(doctor.ID, entity.TimeRange{Start: "09:00", End: "13:00"}), nil, nil)

	got, err := ResolveWorkingRanges(doctor, sources, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rangesEqual(got, entity.TimeRange{Start: "09:00", End: "13:00"}) {
		t.Errorf("unexpected ranges: %v", got)
	}

	got, err = ResolveWorkingRanges(doctor, sources, monday.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no ranges on Tuesday, got %v", got)
	}
}

func TestResolveWorkingRanges_OverrideReplacesTemplate(t *testing.T) {
	doctor := newTestDoctor()
	sources := entity.NewScheduleSources(
		mondayTemplate(doctor.ID, entity.TimeRange{Start: "09:00", End: "13:00"}),
		[]entity.DateOverride{{DoctorID: doctor.ID, Date: "2026-10-19", Ranges: entity.TimeRanges{{Start: "14:00", End: "15:00"}}}},
		nil,
	)

	got, err := ResolveWorkingRanges(doctor, sources, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rangesEqual(got, entity.TimeRange{Start: "14:00", End: "15:00"}) {
		t.Errorf("expected override range only, got %v", got)
	}
}

func TestResolveWorkingRanges_EmptyOverrideIsDayOff(t *testing.T) {
	doctor := newTestDoctor()
	sources := entity.NewScheduleSources(
		mondayTemplate(doctor.ID, entity.TimeRange{Start: "09:00", End: "13:00"}),
		[]entity.DateOverride{{DoctorID: doctor.ID, Date: "2026-10-19", Ranges: entity.TimeRanges{}}},
		nil,
	)

	got, err := ResolveWorkingRanges(doctor, sources, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected day off, got %v", got)
	}
}

func TestResolveWorkingRanges_AdHocAppendedAndSorted(t *testing.T) {
	doctor := newTestDoctor()
	sources := entity.NewScheduleSources(
		mondayTemplate(doctor.ID, entity.TimeRange{Start: "14:00", End: "16:00"}, entity.TimeRange{Start: "09:00", End: "12:00"}),
		nil,
		[]entity.AdHocBlock{
			{DoctorID: doctor.ID, Date: "2026-10-19", StartTime: "18:00", EndTime: "19:00"},
			{DoctorID: doctor.ID, Date: "2026-10-19", StartTime: "09:00", EndTime: "12:00"},
		},
	)

	got, err := ResolveWorkingRanges(doctor, sources, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []entity.TimeRange{
		{Start: "09:00", End: "12:00"},
		{Start: "14:00", End: "16:00"},
		{Start: "18:00", End: "19:00"},
	}
	if !rangesEqual(got, want...) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResolveWorkingRanges_InactiveDoctor(t *testing.T) {
	doctor := newTestDoctor()
	doctor.IsActive = false
	sources := entity.NewScheduleSources(mondayTemplate(doctor.ID, entity.TimeRange{Start: "09:00", End: "13:00"}), nil, nil)

	got, err := ResolveWorkingRanges(doctor, sources, monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil ranges for inactive doctor, got %v", got)
	}
}

func TestResolveWorkingRanges_MalformedRange(t *testing.T) {
	doctor := newTestDoctor()
	sources := entity.NewScheduleSources(mondayTemplate(doctor.ID, entity.TimeRange{Start: "13:00", End: "09:00"}), nil, nil)

	if _, err := ResolveWorkingRanges(doctor, sources, monday); err == nil {
		t.Fatal("expected error for inverted range")
	}
}
