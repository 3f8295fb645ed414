package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO layout used for every persisted calendar date.
const DateLayout = "2006-01-02"

const minutesPerDay = 24 * 60

// TimeRange is a half-open [Start, End) interval of local clock time in HH:MM.
// End may be "24:00" to express a range running until midnight.
type TimeRange struct {
	Start string `json:"start" validate:"required,clock"`
	End   string `json:"end" validate:"required,clock"`
}

// ParseClock converts HH:MM into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, ErrInvalidClock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidClock
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidClock
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight back to HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Bounds returns the range as minutes since midnight.
func (r TimeRange) Bounds() (start, end int, err error) {
	if start, err = ParseClock(r.Start); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(r.End); err != nil {
		return 0, 0, err
	}
	if start >= end || start >= minutesPerDay {
		return 0, 0, ErrInvalidTimeRange
	}
	return start, end, nil
}

// Validate reports whether the range is well formed.
func (r TimeRange) Validate() error {
	_, _, err := r.Bounds()
	return err
}

// Overlaps uses the half-open test s1 < e2 && s2 < e1. Malformed ranges never overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	s1, e1, err := r.Bounds()
	if err != nil {
		return false
	}
	s2, e2, err := other.Bounds()
	if err != nil {
		return false
	}
	return s1 < e2 && s2 < e1
}

func (r TimeRange) String() string {
	return r.Start + "-" + r.End
}

// TimeRanges is stored as a JSONB array.
type TimeRanges []TimeRange

// Value returns json value, implement driver.Valuer interface
func (tr TimeRanges) Value() (driver.Value, error) {
	if tr == nil {
		return "[]", nil
	}
	b, err := json.Marshal(tr)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan scan value into TimeRanges, implements sql.Scanner interface
func (tr *TimeRanges) Scan(value interface{}) error {
	if value == nil {
		*tr = TimeRanges{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}
	return json.Unmarshal(bytes, tr)
}

// Validate checks every range in the list.
func (tr TimeRanges) Validate() error {
	for _, r := range tr {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("range %s: %w", r, err)
		}
	}
	return nil
}

// ParseDate parses an ISO date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// FormatDate renders the calendar date of t (in t's own location).
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
