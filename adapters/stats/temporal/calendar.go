package temporal

import (
	"fmt"
	"strconv"
	"time"

	"tally/domain/core"
)

const (
	dayLayout  = "2006-01-02"
	hoursInDay = 24
	daysInWeek = 7
)

// DaysInYear applies the Gregorian leap-year rule
func DaysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}

// DaysInMonth returns the number of days of month in year
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekdayIndex rotates time.Weekday so that Monday is 0 and Sunday is 6.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % daysInWeek
}

// weekdayAt is the inverse of WeekdayIndex
func weekdayAt(index int) time.Weekday {
	return time.Weekday((index + 1) % daysInWeek)
}

// bucketKey derives the unique key and display label of t under g.
// t must already be converted to the target location.
func bucketKey(g core.Granularity, t time.Time) (key, label string) {
	switch g {
	case core.GranularityYear:
		key = strconv.Itoa(t.Year())
		return key, key
	case core.GranularityMonth:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())), t.Format("Jan 2006")
	case core.GranularityWeekday:
		return weekdayKey(WeekdayIndex(t.Weekday()))
	case core.GranularityDay:
		key = t.Format(dayLayout)
		return key, key
	case core.GranularityHour:
		return hourKey(t.Hour())
	default:
		return "", ""
	}
}

func weekdayKey(index int) (key, label string) {
	return strconv.Itoa(index), weekdayAt(index).String()
}

func hourKey(hour int) (key, label string) {
	return fmt.Sprintf("%02d", hour), fmt.Sprintf("%02d:00", hour)
}
