package core

import "time"

// Event is a signed delta applied to a counter at a point in time.
type Event struct {
	OccurredAt time.Time `json:"createdAt"`
	Value      int64     `json:"number"`
}

// SumValues returns the sum of Value over events.
func SumValues(events []Event) int64 {
	var total int64
	for _, e := range events {
		total += e.Value
	}
	return total
}

// Counter is a named stream of events.
type Counter struct {
	ID        CounterID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
