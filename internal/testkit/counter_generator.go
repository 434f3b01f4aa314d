package testkit

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"tally/domain/core"
)

// CounterGeneratorConfig configures the synthetic counter event generator
type CounterGeneratorConfig struct {
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	EventsPerDay  float64   `json:"events_per_day"` // mean of a Poisson draw per day
	DecrementRate float64   `json:"decrement_rate"` // share of events that undo a previous increment
	MaxStep       int64     `json:"max_step"`       // largest absolute delta of one event
	Shuffle       bool      `json:"shuffle"`        // emit events out of chronological order
	Seed          int64     `json:"seed"`
	Location      *time.Location
}

// DefaultCounterConfig returns sensible defaults covering a leap-year February
func DefaultCounterConfig() CounterGeneratorConfig {
	return CounterGeneratorConfig{
		StartDate:     time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		EventsPerDay:  2.5,
		DecrementRate: 0.1,
		MaxStep:       3,
		Seed:          42,
		Location:      time.UTC,
	}
}

// CounterEventGenerator produces reproducible counter event streams
type CounterEventGenerator struct {
	config CounterGeneratorConfig
	rng    *rand.Rand
}

// NewCounterEventGenerator creates a new generator
func NewCounterEventGenerator(config CounterGeneratorConfig) *CounterEventGenerator {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.MaxStep < 1 {
		config.MaxStep = 1
	}
	return &CounterEventGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateEvents walks the configured date range day by day
func (g *CounterEventGenerator) GenerateEvents() []core.Event {
	var events []core.Event

	start := core.Midnight(g.config.StartDate, g.config.Location)
	for day := start; !day.After(g.config.EndDate); day = day.AddDate(0, 0, 1) {
		n := g.poisson(g.config.EventsPerDay)
		for i := 0; i < n; i++ {
			offset := time.Duration(g.rng.Int63n(int64(24 * time.Hour)))
			at := day.Add(offset)
			if at.After(g.config.EndDate) {
				continue
			}
			events = append(events, core.Event{OccurredAt: at, Value: g.delta()})
		}
	}

	if g.config.Shuffle {
		g.rng.Shuffle(len(events), func(i, j int) {
			events[i], events[j] = events[j], events[i]
		})
	}
	return events
}

func (g *CounterEventGenerator) delta() int64 {
	step := 1 + g.rng.Int63n(g.config.MaxStep)
	if g.rng.Float64() < g.config.DecrementRate {
		return -step
	}
	return step
}

// poisson draws with Knuth's method, fine for the small means used in fixtures
func (g *CounterEventGenerator) poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}
	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= g.rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// WriteCSV writes events in the "createdAt,number,counterRef" layout read by
// the file source. An empty counterID mints a fresh one; the ID used is returned.
func WriteCSV(path string, counterID core.CounterID, events []core.Event) (core.CounterID, error) {
	if counterID.IsEmpty() {
		counterID = core.CounterID(core.NewID())
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"createdAt", "number", "counterRef"}); err != nil {
		return "", err
	}
	for _, e := range events {
		row := []string{e.OccurredAt.Format(time.RFC3339), strconv.FormatInt(e.Value, 10), counterID.String()}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return counterID, w.Error()
}
