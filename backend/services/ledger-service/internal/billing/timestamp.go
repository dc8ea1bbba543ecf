package billing

import (
	"fmt"
	"strings"
	"time"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

const dateOnlyLayout = "2006-01-02"

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateOnlyLayout,
}

// ParseTimestamp accepts ISO-8601 text with or without a UTC offset.
// Text without an offset is interpreted in loc (time.Local when nil).
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("billing: empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("billing: unrecognised timestamp %q", raw)
}

// ParseRangeEnd parses the inclusive end of a range. A bare date stands for
// the last instant of that day in loc.
func ParseRangeEnd(raw string, loc *time.Location) (time.Time, error) {
	t, err := ParseTimestamp(raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	if len(strings.TrimSpace(raw)) == len(dateOnlyLayout) {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
