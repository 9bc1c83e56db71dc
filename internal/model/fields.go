package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// now is replaced in tests that need a fixed clock.
var now = time.Now

const dateLayout = "2006-01-02"

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)`)

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and truncates the
// result to a UTC calendar day.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, invalid(field, fmt.Sprintf("%s is invalid or not provided", field))
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		ts, err2 := time.Parse(time.RFC3339, raw)
		if err2 != nil {
			return time.Time{}, invalid(field, fmt.Sprintf("%s is invalid or not provided", field))
		}
		t = ts.UTC()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// pastDate is parseDate plus a check that the day is not in the future.
func pastDate(field, raw string) (time.Time, error) {
	d, err := parseDate(field, raw)
	if err != nil {
		return d, err
	}
	if d.After(now().UTC()) {
		return time.Time{}, invalid(field, fmt.Sprintf("%s can not be in the future", field))
	}
	return d, nil
}

// clock normalizes "HH:mm" (seconds are tolerated and dropped, which is how
// MySQL TIME columns come back).
func clock(raw string) (string, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", invalid("Time", "Time must be in HH:mm format")
	}
	return m[1] + ":" + m[2], nil
}

// description trims and checks a free text field of at most 200 characters.
func description(field, raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" || len([]rune(raw)) > 200 {
		return "", invalid(field, fmt.Sprintf("%s must be provided and no more than 200 characters", field))
	}
	return s, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
