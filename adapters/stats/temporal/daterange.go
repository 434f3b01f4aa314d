package temporal

import (
	"time"

	"tally/domain/core"
)

// ExpandDays lists every stepDays-th calendar day from start to end inclusive,
// each at the start of that day in loc. It returns an empty slice when start
// falls after end. A step below 1 is treated as 1.
func ExpandDays(start, end time.Time, stepDays int, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	if stepDays < 1 {
		stepDays = 1
	}

	// walk calendar dates, not instants, so DST shifts cannot skip or repeat a day
	y, m, d := start.In(loc).Date()
	last := civilDate(end.In(loc).Date())

	days := []time.Time{}
	for i := 0; !civilDate(y, m, d+i).After(last); i += stepDays {
		days = append(days, core.StartOfDay(y, m, d+i, loc))
	}
	return days
}

// civilDate pins a calendar date to noon UTC so dates compare without zone effects
func civilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
