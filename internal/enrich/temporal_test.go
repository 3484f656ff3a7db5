package enrich

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestBusinessDaysSince_FridayToMondayIsOne(t *testing.T) {
	friday := date(2026, time.August, 28)
	monday := date(2026, time.August, 31)

	if got := BusinessDaysSince(friday, monday); got != 1 {
		t.Fatalf("expected 1 business day Friday→Monday, got %d", got)
	}
}

func TestBusinessDaysSince_SameOrLaterDateIsZero(t *testing.T) {
	now := date(2026, time.September, 1)

	if got := BusinessDaysSince(now, now); got != 0 {
		t.Fatalf("expected 0 for same date, got %d", got)
	}
	if got := BusinessDaysSince(now.AddDate(0, 0, 3), now); got != 0 {
		t.Fatalf("expected 0 for future instant, got %d", got)
	}
	// Different clock times on the same calendar date still count as 0.
	earlier := time.Date(2026, time.September, 1, 0, 30, 0, 0, time.UTC)
	later := time.Date(2026, time.September, 1, 23, 30, 0, 0, time.UTC)
	if got := BusinessDaysSince(earlier, later); got != 0 {
		t.Fatalf("expected 0 within one calendar date, got %d", got)
	}
}

func TestBusinessDaysSince_WalksOverWeekend(t *testing.T) {
	friday := date(2026, time.August, 28)

	cases := []struct {
		now  time.Time
		want int
	}{
		{date(2026, time.August, 29), 0},   // Saturday
		{date(2026, time.August, 30), 0},   // Sunday
		{date(2026, time.August, 31), 1},   // Monday
		{date(2026, time.September, 1), 2}, // Tuesday
		{date(2026, time.September, 4), 5}, // next Friday
		{date(2026, time.September, 7), 6}, // Monday after
	}
	for _, tc := range cases {
		if got := BusinessDaysSince(friday, tc.now); got != tc.want {
			t.Fatalf("at %s: expected %d, got %d", tc.now.Format("2006-01-02"), tc.want, got)
		}
	}
}

func TestBusinessDaysSince_MonotonicAsNowAdvances(t *testing.T) {
	start := date(2026, time.August, 3)
	prev := 0
	for i := 0; i < 30; i++ {
		now := start.AddDate(0, 0, i)
		got := BusinessDaysSince(start, now)
		if got < prev {
			t.Fatalf("business days decreased from %d to %d at offset %d", prev, got, i)
		}
		prev = got
	}
}

func TestApproxBusinessDays(t *testing.T) {
	cases := []struct {
		calendarDays int
		want         int
	}{
		{-1, 0},
		{0, 0},
		{3, 3},
		{5, 5},
		{6, 5}, // remainder capped at 5
		{7, 5},
		{10, 8},
		{14, 10},
	}
	for _, tc := range cases {
		if got := ApproxBusinessDays(tc.calendarDays); got != tc.want {
			t.Fatalf("ApproxBusinessDays(%d): expected %d, got %d", tc.calendarDays, tc.want, got)
		}
	}
}

func TestParseTimestamp_ISOWithZuluSuffix(t *testing.T) {
	got := ParseTimestamp("2026-08-28T15:04:05Z")
	want := time.Date(2026, time.August, 28, 15, 4, 5, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseTimestamp_EpochMillisAndSeconds(t *testing.T) {
	want := time.Date(2026, time.August, 28, 15, 4, 5, 0, time.UTC)

	if got := ParseTimestamp(float64(want.UnixMilli())); !got.Equal(want) {
		t.Fatalf("millis: expected %v, got %v", want, got)
	}
	if got := ParseTimestamp(float64(want.Unix())); !got.Equal(want) {
		t.Fatalf("seconds: expected %v, got %v", want, got)
	}
}

func TestParseTimestamp_MalformedIsZero(t *testing.T) {
	for _, v := range []any{nil, "", "not-a-date", "2026-13-45T99:99:99Z", float64(-5)} {
		if got := ParseTimestamp(v); !got.IsZero() {
			t.Fatalf("expected zero time for %v, got %v", v, got)
		}
	}
}
