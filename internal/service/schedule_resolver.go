package service

import (
	"fmt"
	"sort"
	"time"

	"clinic-slot-engine/internal/domain/entity"
)

// ResolveWorkingRanges merges the schedule sources that apply to one doctor on one
// date into an ordered list of working ranges.
//
// Precedence:
//  1. inactive or unavailable doctor -> no ranges
//  2. a date override, when present, replaces the weekly template for that date
//     (an override with no ranges means a day off)
//  3. otherwise the weekly template ranges for the date's weekday
//  4. ad-hoc blocks are always appended on top of the base
//
// Ranges are sorted by (start, end). Identical ranges are collapsed; overlapping
// ranges are kept apart so each slot can be traced to its source.
func ResolveWorkingRanges(doctor *entity.Doctor, sources *entity.ScheduleSources, date time.Time) ([]entity.TimeRange, error) {
	if doctor == nil || !doctor.Schedulable() || sources == nil {
		return nil, nil
	}

	key := entity.FormatDate(date)

	var base entity.TimeRanges
	if override, ok := sources.Overrides[key]; ok {
		base = override
	} else {
		base = sources.Template.RangesFor(date.Weekday())
	}

	merged := make([]entity.TimeRange, 0, len(base)+len(sources.AdHocBlocks[key]))
	merged = append(merged, base...)
	merged = append(merged, sources.AdHocBlocks[key]...)

	type bounded struct {
		r          entity.TimeRange
		start, end int
	}
	ranges := make([]bounded, 0, len(merged))
	for _, r := range merged {
		start, end, err := r.Bounds()
		if err != nil {
			return nil, fmt.Errorf("resolve %s range %s: %w", key, r, err)
		}
		ranges = append(ranges, bounded{
			r:     entity.TimeRange{Start: entity.FormatClock(start), End: entity.FormatClock(end)},
			start: start,
			end:   end,
		})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].start != ranges[j].start {
			return ranges[i].start < ranges[j].start
		}
		return ranges[i].end < ranges[j].end
	})

	resolved := make([]entity.TimeRange, 0, len(ranges))
	for i, b := range ranges {
		if i > 0 && b.start == ranges[i-1].start && b.end == ranges[i-1].end {
			continue
		}
		resolved = append(resolved, b.r)
	}
	return resolved, nil
}
