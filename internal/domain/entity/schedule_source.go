package entity

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyTemplateDay holds the recurring working ranges for one weekday.
type WeeklyTemplateDay struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_doctor_weekday" json:"doctor_id"`
	Weekday   int        `gorm:"not null;uniqueIndex:idx_weekly_doctor_weekday" json:"weekday"` // 0 = Sunday
	Ranges    TimeRanges `gorm:"type:jsonb;not null" json:"ranges"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WeeklyTemplateDay) TableName() string {
	return "weekly_template_days"
}

// WeeklyTemplate is the aggregate view of a doctor's template rows.
type WeeklyTemplate struct {
	DoctorID uuid.UUID
	Days     map[time.Weekday]TimeRanges
}

// NewWeeklyTemplate folds template rows into a weekday map.
func NewWeeklyTemplate(doctorID uuid.UUID, days []WeeklyTemplateDay) *WeeklyTemplate {
	t := &WeeklyTemplate{DoctorID: doctorID, Days: make(map[time.Weekday]TimeRanges, len(days))}
	for _, d := range days {
		t.Days[time.Weekday(d.Weekday)] = d.Ranges
	}
	return t
}

// RangesFor returns the template ranges for a weekday, nil when none.
func (t *WeeklyTemplate) RangesFor(day time.Weekday) TimeRanges {
	if t == nil {
		return nil
	}
	return t.Days[day]
}

// DateOverride replaces the weekly template for one date. An override with no
// ranges marks the date as non-working.
type DateOverride struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_override_doctor_date" json:"doctor_id"`
	Date      string     `gorm:"column:override_date;type:varchar(10);not null;uniqueIndex:idx_override_doctor_date" json:"date"`
	Ranges    TimeRanges `gorm:"type:jsonb;not null" json:"ranges"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DateOverride) TableName() string {
	return "date_overrides"
}

// AdHocBlock is a one-off additional working interval on a date.
type AdHocBlock struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_adhoc_doctor_date" json:"doctor_id"`
	Date      string    `gorm:"column:block_date;type:varchar(10);not null;index:idx_adhoc_doctor_date" json:"date"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AdHocBlock) TableName() string {
	return "adhoc_blocks"
}

// Range returns the block's working interval.
func (b *AdHocBlock) Range() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}

// ScheduleSources bundles every source the resolver reads for one doctor.
type ScheduleSources struct {
	Template    *WeeklyTemplate
	Overrides   map[string]TimeRanges // ISO date -> ranges
	AdHocBlocks map[string]TimeRanges // ISO date -> ranges
}

// NewScheduleSources indexes overrides and ad-hoc blocks by date.
func NewScheduleSources(template *WeeklyTemplate, overrides []DateOverride, blocks []AdHocBlock) *ScheduleSources {
	s := &ScheduleSources{
		Template:    template,
		Overrides:   make(map[string]TimeRanges, len(overrides)),
		AdHocBlocks: make(map[string]TimeRanges),
	}
	for _, o := range overrides {
		s.Overrides[o.Date] = o.Ranges
	}
	for _, b := range blocks {
		s.AdHocBlocks[b.Date] = append(s.AdHocBlocks[b.Date], b.Range())
	}
	return s
}
