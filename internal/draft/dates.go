package draft

import (
	"fmt"
	"strings"
	"time"
)

// LocalLayout is the wall-clock format used by the schedule input.
const LocalLayout = "2006-01-02T15:04"

var acceptedLayouts = []string{
	LocalLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ToLocalInput renders t as a minute-precision wall-clock string in loc.
// A nil instant renders as the empty string.
func ToLocalInput(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(orLocal(loc)).Truncate(time.Minute).Format(LocalLayout)
}

// FromLocalInput parses a wall-clock string in loc and returns the UTC
// instant it denotes. Blank input means no schedule and returns nil.
func FromLocalInput(value string, loc *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	for _, layout := range acceptedLayouts {
		parsed, err := time.ParseInLocation(layout, trimmed, orLocal(loc))
		if err == nil {
			utc := parsed.Truncate(time.Minute).UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("parse schedule %q: want YYYY-MM-DDTHH:MM", trimmed)
}

// MinimumSchedule returns the earliest wall-clock value the schedule input
// accepts at now.
func MinimumSchedule(now time.Time, loc *time.Location) string {
	return now.In(orLocal(loc)).Truncate(time.Minute).Format(LocalLayout)
}

// normalizeLocal re-renders a wall-clock string at minute precision so that
// "2025-03-01T14:30:59" and "2025-03-01T14:30" compare equal. Unparseable
// input is returned trimmed.
func normalizeLocal(value string, loc *time.Location) string {
	parsed, err := FromLocalInput(value, loc)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return ToLocalInput(parsed, loc)
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
