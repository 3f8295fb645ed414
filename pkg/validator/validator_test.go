package validator

import "testing"

type shift struct {
	Date  string `validate:"required,isodate"`
	Start string `validate:"required,clock"`
}

func TestCustomTags(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&shift{Date: "2026-10-19", Start: "24:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.Validate(&shift{Date: "2026/10/19", Start: "9:00"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msgs := v.FormatValidationErrors(err)
	if msgs["Date"] != "Date must be a date in YYYY-MM-DD format" {
		t.Errorf("unexpected date message %q", msgs["Date"])
	}
	if msgs["Start"] != "Start must be a time in HH:MM format" {
		t.Errorf("unexpected clock message %q", msgs["Start"])
	}
}
