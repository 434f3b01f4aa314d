package core

import (
	"fmt"
	"strings"
)

// Granularity is the calendar unit used to partition events.
type Granularity string

const (
	GranularityYear    Granularity = "year"
	GranularityMonth   Granularity = "month"
	GranularityWeekday Granularity = "weekday"
	GranularityDay     Granularity = "day"
	GranularityHour    Granularity = "hour"
)

// Granularities lists every granularity in presentation order.
var Granularities = []Granularity{
	GranularityYear,
	GranularityMonth,
	GranularityWeekday,
	GranularityDay,
	GranularityHour,
}

// ParseGranularity parses a case-insensitive granularity name
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Granularities {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// HasAverage reports whether buckets of this granularity carry elapsed days and averages.
func (g Granularity) HasAverage() bool {
	return g == GranularityYear || g == GranularityMonth
}

func (g Granularity) String() string { return string(g) }
