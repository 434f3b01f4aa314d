package temporal

import (
	"time"

	"tally/domain/core"
	"tally/domain/stats"
	"tally/internal/errors"
)

// Bin groups events into buckets for granularity g, with calendar fields taken in loc.
//
// Events are visited in the order given. YEAR, MONTH and DAY buckets come back in
// first-seen order and only exist when at least one event maps to them. WEEKDAY
// buckets come back Monday..Sunday and HOUR buckets 00..23; HOUR always holds all
// 24 slots, WEEKDAY all 7 slots as soon as there is at least one event.
func Bin(events []core.Event, g core.Granularity, loc *time.Location) ([]stats.Bucket, error) {
	if loc == nil {
		loc = time.Local
	}
	if err := validateEvents(events); err != nil {
		return nil, err
	}

	switch g {
	case core.GranularityYear, core.GranularityMonth, core.GranularityDay:
		return binFirstSeen(events, g, loc), nil
	case core.GranularityWeekday:
		if len(events) == 0 {
			return []stats.Bucket{}, nil
		}
		return binFixed(events, loc, daysInWeek, weekdayKey, func(t time.Time) int {
			return WeekdayIndex(t.Weekday())
		}), nil
	case core.GranularityHour:
		return binFixed(events, loc, hoursInDay, hourKey, time.Time.Hour), nil
	default:
		return nil, errors.Validationf(core.ErrUnknownGranularity, "cannot bin by %q", g)
	}
}

// validateEvents rejects the whole input when any event has no usable timestamp
func validateEvents(events []core.Event) error {
	for i, e := range events {
		if e.OccurredAt.IsZero() {
			return errors.Validationf(core.ErrInvalidTimestamp, "event %d has no timestamp", i)
		}
	}
	return nil
}

func binFirstSeen(events []core.Event, g core.Granularity, loc *time.Location) []stats.Bucket {
	buckets := []stats.Bucket{}
	position := make(map[string]int)

	for _, e := range events {
		t := e.OccurredAt.In(loc)
		key, label := bucketKey(g, t)

		i, seen := position[key]
		if !seen {
			i = len(buckets)
			position[key] = i
			buckets = append(buckets, stats.Bucket{
				Key:         key,
				Label:       label,
				PeriodStart: stats.PeriodOf(t),
			})
		}
		buckets[i].Total += e.Value
	}

	return buckets
}

// binFixed pre-fills size slots in canonical order and accumulates into them.
func binFixed(
	events []core.Event,
	loc *time.Location,
	size int,
	keyOf func(int) (string, string),
	slotOf func(time.Time) int,
) []stats.Bucket {
	buckets := make([]stats.Bucket, size)
	seen := make([]bool, size)
	for i := range buckets {
		buckets[i].Key, buckets[i].Label = keyOf(i)
	}

	for _, e := range events {
		t := e.OccurredAt.In(loc)
		slot := slotOf(t)
		if !seen[slot] {
			seen[slot] = true
			buckets[slot].PeriodStart = stats.PeriodOf(t)
		}
		buckets[slot].Total += e.Value
	}

	return buckets
}
