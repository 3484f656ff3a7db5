package enrich

import (
	"time"

	"pipeline_portal_backend/internal/pipeline/domain"
)

// ParseTimestamp interprets a raw CRM timestamp (ISO-8601 string or epoch
// number). Malformed input yields the zero time, never an error; callers
// treat the zero time as absent data.
func ParseTimestamp(v any) time.Time {
	return domain.ParseFlexTime(v)
}

// BusinessDaysSince counts Monday-Friday days strictly after t's UTC
// calendar date, up to and including now's calendar date. Returns 0 when
// t's date is not strictly before now's date.
//
// This is a calendar-day walk rather than a 24h-multiple division, so a
// message sent on Friday reads as 1 business day old on the following
// Monday.
func BusinessDaysSince(t, now time.Time) int {
	start := dateOf(t)
	end := dateOf(now)
	if !start.Before(end) {
		return 0
	}

	count := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// ApproxBusinessDays estimates business days from a calendar-day count at a
// 5/7 ratio, capping the partial-week remainder at 5. Used as the timing
// signal when no conversation timestamp exists.
func ApproxBusinessDays(calendarDays int) int {
	if calendarDays <= 0 {
		return 0
	}
	fullWeeks := calendarDays / 7
	remainder := calendarDays % 7
	if remainder > 5 {
		remainder = 5
	}
	return fullWeeks*5 + remainder
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
