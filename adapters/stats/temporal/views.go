package temporal

import (
	"time"

	"tally/domain/core"
	"tally/domain/stats"
	"tally/internal/errors"
)

// YearView bins events by calendar year with daily averages and running statistics
func YearView(events []core.Event, reference time.Time, loc *time.Location) ([]stats.CumulativeBucket, error) {
	return averagedView(events, core.GranularityYear, reference, loc)
}

// MonthView bins events by calendar month with daily averages and running statistics
func MonthView(events []core.Event, reference time.Time, loc *time.Location) ([]stats.CumulativeBucket, error) {
	return averagedView(events, core.GranularityMonth, reference, loc)
}

// WeekdayView totals events per day of the week, Monday first. Once any event
// exists all seven slots are returned, silent days with a zero total, so index i
// is always the same weekday (0 Monday .. 6 Sunday). No events means no buckets.
func WeekdayView(events []core.Event, loc *time.Location) ([]stats.Bucket, error) {
	return Bin(events, core.GranularityWeekday, loc)
}

// HourView totals events per hour of the day across all dates. It always has 24 buckets.
func HourView(events []core.Event, loc *time.Location) ([]stats.Bucket, error) {
	return Bin(events, core.GranularityHour, loc)
}

// DayView totals events per calendar day, with zero buckets for silent days.
// The range starts at the earliest event day and ends at the later of the
// latest event day and the reference day. No events means no buckets.
func DayView(events []core.Event, reference time.Time, loc *time.Location) ([]stats.Bucket, error) {
	if loc == nil {
		loc = time.Local
	}
	binned, err := Bin(events, core.GranularityDay, loc)
	if err != nil {
		return nil, err
	}
	if len(binned) == 0 {
		return []stats.Bucket{}, nil
	}

	first, last := span(events)
	if !reference.IsZero() && reference.After(last) {
		last = reference
	}

	byKey := make(map[string]stats.Bucket, len(binned))
	for _, b := range binned {
		byKey[b.Key] = b
	}

	days := ExpandDays(first, last, 1, loc)
	out := make([]stats.Bucket, 0, len(days))
	for _, day := range days {
		key, label := bucketKey(core.GranularityDay, day)
		if b, ok := byKey[key]; ok {
			out = append(out, b)
			continue
		}
		out = append(out, stats.Bucket{
			Key:         key,
			Label:       label,
			PeriodStart: stats.PeriodOf(day),
		})
	}
	return out, nil
}

// Compute dispatches to the view function for g
func Compute(events []core.Event, g core.Granularity, reference time.Time, loc *time.Location) (stats.View, error) {
	view := stats.View{Granularity: g}
	var err error

	switch g {
	case core.GranularityYear:
		view.Cumulative, err = YearView(events, reference, loc)
	case core.GranularityMonth:
		view.Cumulative, err = MonthView(events, reference, loc)
	case core.GranularityWeekday:
		view.Buckets, err = WeekdayView(events, loc)
	case core.GranularityDay:
		view.Buckets, err = DayView(events, reference, loc)
	case core.GranularityHour:
		view.Buckets, err = HourView(events, loc)
	default:
		err = errors.Validationf(core.ErrUnknownGranularity, "no view for %q", g)
	}
	if err != nil {
		return stats.View{}, err
	}
	return view, nil
}

func averagedView(events []core.Event, g core.Granularity, reference time.Time, loc *time.Location) ([]stats.CumulativeBucket, error) {
	buckets, err := Bin(events, g, loc)
	if err != nil {
		return nil, err
	}
	return Accumulate(ApplyAverages(buckets, g, reference, loc)), nil
}

// span returns the earliest and latest timestamps of a non-empty event slice
func span(events []core.Event) (first, last time.Time) {
	first, last = events[0].OccurredAt, events[0].OccurredAt
	for _, e := range events[1:] {
		if e.OccurredAt.Before(first) {
			first = e.OccurredAt
		}
		if e.OccurredAt.After(last) {
			last = e.OccurredAt
		}
	}
	return first, last
}
