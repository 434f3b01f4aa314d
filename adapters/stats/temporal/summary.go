package temporal

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"tally/domain/core"
	"tally/domain/stats"
	"tally/internal/ratio"
)

// Summarize describes the whole event stream relative to reference.
//
// Days counts whole days (rounded up) from the first event to reference, with a
// floor of 1, and Average is Total over Days. DailyMean and DailyStdDev are taken
// over the zero-filled DAY view. An empty stream yields a zero Summary.
func Summarize(events []core.Event, reference time.Time, loc *time.Location) (stats.Summary, error) {
	if err := validateEvents(events); err != nil {
		return stats.Summary{}, err
	}
	if len(events) == 0 {
		return stats.Summary{Humanized: ratio.Humanize(0)}, nil
	}

	first, last := span(events)
	if reference.IsZero() {
		reference = last
	}

	days := int(math.Ceil(reference.Sub(first).Hours() / 24))
	if days < 1 {
		days = 1
	}

	total := core.SumValues(events)
	average := Round2(float64(total) / float64(days))

	daily, err := DayView(events, reference, loc)
	if err != nil {
		return stats.Summary{}, err
	}
	dailyTotals := make([]float64, len(daily))
	for i, b := range daily {
		dailyTotals[i] = float64(b.Total)
	}

	var mean, stdDev float64
	if len(dailyTotals) > 1 {
		mean, stdDev = stat.MeanStdDev(dailyTotals, nil)
	} else {
		mean = dailyTotals[0]
	}

	return stats.Summary{
		Events:      len(events),
		Total:       total,
		FirstAt:     first,
		LastAt:      last,
		Days:        days,
		Average:     average,
		Humanized:   ratio.Humanize(average),
		DailyMean:   Round2(mean),
		DailyStdDev: Round2(stdDev),
	}, nil
}

// Feed groups events by calendar day in loc, newest day first and newest event
// first within a day.
func Feed(events []core.Event, loc *time.Location) ([]stats.FeedDay, error) {
	if loc == nil {
		loc = time.Local
	}
	if err := validateEvents(events); err != nil {
		return nil, err
	}

	sorted := make([]core.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.After(sorted[j].OccurredAt)
	})

	feed := []stats.FeedDay{}
	for _, e := range sorted {
		date := e.OccurredAt.In(loc).Format(dayLayout)
		if n := len(feed); n == 0 || feed[n-1].Date != date {
			feed = append(feed, stats.FeedDay{Date: date})
		}
		day := &feed[len(feed)-1]
		day.Total += e.Value
		day.Events = append(day.Events, e)
	}
	return feed, nil
}
