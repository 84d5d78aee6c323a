package dates

import (
	"fmt"
	"time"
)

// WireLayout is the canonical date format on the REST surface.
// It matches what browsers produce with Date.toISOString.
const WireLayout = "2006-01-02T15:04:05.000Z07:00"

// DateOnlyLayout is accepted when parsing, for hand-written requests and form input.
const DateOnlyLayout = "2006-01-02"

// Interval is an inclusive span between two instants
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsSameDay reports whether a and b fall on the same calendar day in a's location
func IsSameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsBefore reports whether a is strictly before b
func IsBefore(a, b time.Time) bool {
	return a.Before(b)
}

// IsAfter reports whether a is strictly after b
func IsAfter(a, b time.Time) bool {
	return a.After(b)
}

// AddDays adds n calendar days, keeping the wall clock time across DST changes
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// StartOfDay returns midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsWithinInterval reports whether date lies in [Start, End].
// An interval with Start after End contains nothing; normalize it first.
func IsWithinInterval(date time.Time, iv Interval) bool {
	if iv.Start.After(iv.End) {
		return false
	}
	return !date.Before(iv.Start) && !date.After(iv.End)
}

// NormalizeRange orders two instants so that the first is never after the second
func NormalizeRange(a, b time.Time) (time.Time, time.Time) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}

// DaysInRange counts the calendar days covered by an inclusive range,
// rounding a partial trailing day up.
func DaysInRange(start, end time.Time) int {
	start, end = NormalizeRange(start, end)
	days := int(end.Sub(start) / (24 * time.Hour))
	if end.Sub(start)%(24*time.Hour) != 0 {
		days++
	}
	return days + 1
}

// FormatWire renders t in the canonical wire format (UTC, millisecond precision)
func FormatWire(t time.Time) string {
	return t.UTC().Format(WireLayout)
}

// ParseWire parses a wire date. RFC 3339 with any fractional precision is
// accepted, as is a bare date which is read as midnight UTC.
func ParseWire(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateOnlyLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
