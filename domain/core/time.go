package core

import (
	"strings"
	"time"
)

// Clock supplies the reference moment ("now") to the calling layer.
// The engine never reads the wall clock itself.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock time.Time

// Now returns the fixed instant
func (c FixedClock) Now() time.Time { return time.Time(c) }

// TimeReference names the calendar that events are bucketed in.
type TimeReference string

const (
	TimeLocal TimeReference = "local"
	TimeUTC   TimeReference = "utc"
)

// Location resolves the reference to a *time.Location. Besides "local" and "utc"
// any IANA zone name is accepted; unknown names fall back to time.Local.
func (r TimeReference) Location() *time.Location {
	name := strings.TrimSpace(string(r))
	switch strings.ToLower(name) {
	case "", string(TimeLocal):
		return time.Local
	case string(TimeUTC):
		return time.UTC
	default:
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		return time.Local
	}
}

// Midnight returns the start of t's calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return StartOfDay(t.Year(), t.Month(), t.Day(), loc)
}

// StartOfDay returns the first instant of the calendar day year-month-day in loc.
// Out-of-range month and day values are normalized as in time.Date. When a DST
// gap swallows midnight the day starts at the end of the gap, never on the
// previous date.
func StartOfDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	// resolve the calendar date first so the comparison below is meaningful
	y, m, d := time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Date()

	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if sy, sm, sd := start.Date(); sy == y && sm == m && sd == d {
		return start
	}

	// midnight read with the pre-transition offset is the instant the gap ends
	_, offset := start.Zone()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(-time.Duration(offset) * time.Second).In(loc)
}
