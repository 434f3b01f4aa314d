package temporal

import (
	"math"
	"time"

	mstats "github.com/montanaflynn/stats"

	"tally/domain/core"
	"tally/domain/stats"
)

// ElapsedDays returns the number of days a YEAR or MONTH bucket's total is spread over.
//
//   - the period the reference moment falls in counts up to the reference day
//   - the first bucket (position 0) counts from its first observed day to the end of the period
//   - any other period counts in full
//
// The result is never below 1. Other granularities always get 1.
func ElapsedDays(b stats.Bucket, position int, g core.Granularity, reference time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	ref := reference.In(loc)
	p := b.PeriodStart

	var days int
	switch g {
	case core.GranularityYear:
		switch {
		case p.Year == ref.Year():
			days = ref.YearDay()
		case position == 0:
			days = DaysInYear(p.Year) - p.YearDay
		default:
			days = DaysInYear(p.Year)
		}
	case core.GranularityMonth:
		switch {
		case p.Year == ref.Year() && p.Month == ref.Month():
			days = ref.Day()
		case position == 0:
			days = DaysInMonth(p.Year, p.Month) - p.Day
		default:
			days = DaysInMonth(p.Year, p.Month)
		}
	}

	if days < 1 {
		return 1
	}
	return days
}

// ApplyAverages returns a copy of buckets with ElapsedDays and Average filled in.
// buckets must be in the chronological order produced by Bin.
func ApplyAverages(buckets []stats.Bucket, g core.Granularity, reference time.Time, loc *time.Location) []stats.Bucket {
	out := make([]stats.Bucket, len(buckets))
	for i, b := range buckets {
		b.ElapsedDays = ElapsedDays(b, i, g, reference, loc)
		b.Average = Round2(float64(b.Total) / float64(b.ElapsedDays))
		out[i] = b
	}
	return out
}

// Round2 rounds half away from zero to two decimal places
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	rounded, err := mstats.Round(x, 2)
	if err != nil {
		return x
	}
	return rounded
}
