package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
// Anything above it is treated as milliseconds. A millisecond value at or
// below the threshold would be a date before September 2001, which the CRM
// never emits, so small numerics are safely read as seconds.
const epochMillisThreshold = 1e12

// FlexTime handles CRM timestamps that arrive as either an ISO-8601 string
// or an epoch number (seconds or milliseconds). A malformed or absent value
// decodes to the zero time rather than an error; downstream code treats the
// zero time as "no timing signal".
type FlexTime struct {
	time.Time
}

// NewFlexTime wraps a time.Time.
func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{Time: t}
}

// ParseFlexTime interprets a raw timestamp value the way the CRM emits them.
// Returns the zero time when the value cannot be interpreted.
func ParseFlexTime(v any) time.Time {
	switch ts := v.(type) {
	case nil:
		return time.Time{}
	case float64:
		return epochToTime(ts)
	case int64:
		return epochToTime(float64(ts))
	case int:
		return epochToTime(float64(ts))
	case string:
		return parseISO(ts)
	default:
		return time.Time{}
	}
}

func epochToTime(v float64) time.Time {
	if v <= 0 {
		return time.Time{}
	}
	if v > epochMillisThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}
	return time.Unix(int64(v), 0).UTC()
}

func parseISO(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = ParseFlexTime(raw)
	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}
