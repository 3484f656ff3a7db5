package domain

import (
	"testing"
	"time"
)

func TestParseFlexTime(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want time.Time
	}{
		{"rfc3339", "2026-08-21T14:30:00Z", time.Date(2026, 8, 21, 14, 30, 0, 0, time.UTC)},
		{"date only", "2026-08-21", time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)},
		{"epoch millis", float64(1787322600000), time.Date(2026, 8, 21, 14, 30, 0, 0, time.UTC)},
		{"epoch seconds", float64(1787322600), time.Date(2026, 8, 21, 14, 30, 0, 0, time.UTC)},
		{"nil", nil, time.Time{}},
		{"garbage string", "not a date", time.Time{}},
		{"zero", float64(0), time.Time{}},
		{"negative", float64(-5), time.Time{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseFlexTime(tc.in)
			if !got.Equal(tc.want) {
				t.Fatalf("ParseFlexTime(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestEpochThresholdSplitsSecondsAndMillis(t *testing.T) {
	// Values just past the threshold decode as milliseconds (late 2001);
	// values below it decode as seconds.
	millis := ParseFlexTime(float64(1.1e12))
	if millis.Year() != 2004 {
		t.Fatalf("1.1e12 should decode as millis in 2004, got %v", millis)
	}
	seconds := ParseFlexTime(float64(9e11))
	if seconds.Year() <= 3000 {
		t.Fatalf("9e11 should decode as seconds far in the future, got %v", seconds)
	}
}

func TestFlexTimeUnmarshalNeverErrors(t *testing.T) {
	var ft FlexTime
	for _, raw := range []string{`"2026-08-21T14:30:00Z"`, `1787322600000`, `"bogus"`, `null`, `true`} {
		if err := ft.UnmarshalJSON([]byte(raw)); err != nil {
			t.Fatalf("UnmarshalJSON(%s) error = %v, want nil", raw, err)
		}
	}
	if err := ft.UnmarshalJSON([]byte(`"2026-08-21T14:30:00Z"`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ft.Time.IsZero() {
		t.Fatal("valid timestamp decoded to zero time")
	}
}
