package timeutil

import "time"

const (
	// DateLayout defines the canonical date format (YYYY-MM-DD) used for upstream requests and cache keys.
	DateLayout      = "2006-01-02"
	// ClockLayout renders the feed's last-updated time for displays.
	ClockLayout     = "03:04 PM"
	// StartTimeLayout renders a game's local start time with its zone abbreviation.
	StartTimeLayout = "3:04 PM MST"
)

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// ParseDateIn parses a YYYY-MM-DD date as midnight in loc. A nil loc means UTC.
func ParseDateIn(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
// A nil loc compares each time in its own location.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc != nil {
		a, b = a.In(loc), b.In(loc)
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// LoadLocation loads a named zone. It returns UTC and false when name is
// empty or unknown.
func LoadLocation(name string) (*time.Location, bool) {
	if name == "" {
		return time.UTC, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, false
	}
	return loc, true
}
