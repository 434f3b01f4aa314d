package ports

import (
	"context"

	"tally/domain/core"
)

// EventSource supplies the raw event stream of a counter. It is the only way
// events reach the aggregation engine; sources never aggregate themselves.
type EventSource interface {
	// ListEvents returns the events of counterID in source order.
	// An empty counterID returns every event the source holds.
	ListEvents(ctx context.Context, counterID core.CounterID) ([]core.Event, error)
}

// CounterCatalog lists the counters a source knows about
type CounterCatalog interface {
	ListCounters(ctx context.Context) ([]core.Counter, error)
}
