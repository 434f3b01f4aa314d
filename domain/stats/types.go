package stats

import (
	"time"

	"tally/domain/core"
)

// ============================================================================
// BUCKETS
// ============================================================================

// Period holds the calendar fields of the first event seen in a bucket.
// The first bucket of a YEAR/MONTH view uses it to work out how much of the
// period was actually covered by data.
type Period struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Day     int        `json:"day"`
	YearDay int        `json:"yearDay"`
}

// PeriodOf extracts the calendar fields of t (already in the target location)
func PeriodOf(t time.Time) Period {
	return Period{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		YearDay: t.YearDay(),
	}
}

// Bucket aggregates the events that share one calendar period.
// ElapsedDays and Average are only set for YEAR and MONTH buckets.
type Bucket struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	PeriodStart Period  `json:"periodStart"`
	Total       int64   `json:"total"`
	ElapsedDays int     `json:"elapsedDays,omitempty"`
	Average     float64 `json:"average,omitempty"`
}

// CumulativeBucket extends a YEAR/MONTH bucket with running statistics
type CumulativeBucket struct {
	Bucket
	CumulativeTotal   int64   `json:"cumulativeTotal"`
	CumulativeAverage float64 `json:"cumulativeAverage"`
}

// View is the result of one binning request. Cumulative is filled for
// YEAR/MONTH, Buckets for every other granularity.
type View struct {
	Granularity core.Granularity   `json:"granularity"`
	Buckets     []Bucket           `json:"buckets,omitempty"`
	Cumulative  []CumulativeBucket `json:"cumulative,omitempty"`
}

// Totals returns the per-bucket totals of the view in presentation order
func (v View) Totals() []int64 {
	if v.Cumulative != nil {
		totals := make([]int64, len(v.Cumulative))
		for i, b := range v.Cumulative {
			totals[i] = b.Total
		}
		return totals
	}
	totals := make([]int64, len(v.Buckets))
	for i, b := range v.Buckets {
		totals[i] = b.Total
	}
	return totals
}

// ============================================================================
// COUNTER-LEVEL SUMMARIES
// ============================================================================

// Summary describes a whole event stream relative to a reference moment.
type Summary struct {
	Events      int       `json:"events"`
	Total       int64     `json:"total"`
	FirstAt     time.Time `json:"firstAt"`
	LastAt      time.Time `json:"lastAt"`
	Days        int       `json:"days"`
	Average     float64   `json:"average"`
	Humanized   string    `json:"humanized"`
	DailyMean   float64   `json:"dailyMean"`
	DailyStdDev float64   `json:"dailyStdDev"`
}

// FeedDay groups the events of one calendar day, newest first
type FeedDay struct {
	Date   string       `json:"date"`
	Total  int64        `json:"total"`
	Events []core.Event `json:"events"`
}
