package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/adapters/stats/temporal"
	"tally/domain/core"
	"tally/domain/stats"
	"tally/internal"
	"tally/internal/errors"
	"tally/ports"
)

// ReportService fetches a counter's events and runs them through the
// temporal engine. The reference moment comes from the clock so that
// every view in one request agrees on "now".
type ReportService struct {
	source ports.EventSource
	clock  core.Clock
	loc    *time.Location
	logger *internal.Logger
}

// Dashboard bundles every view of one counter plus its summary
type Dashboard struct {
	CounterID   core.CounterID `json:"counterId,omitempty"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Summary     stats.Summary  `json:"summary"`
	Views       []stats.View   `json:"views"`
}

// NewReportService creates a report service. A nil clock means the system
// clock; a nil location means time.Local.
func NewReportService(source ports.EventSource, clock core.Clock, loc *time.Location, logger *internal.Logger) *ReportService {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{source: source, clock: clock, loc: loc, logger: logger}
}

// View computes a single granularity view of counterID
func (s *ReportService) View(ctx context.Context, counterID core.CounterID, g core.Granularity) (stats.View, error) {
	events, err := s.fetch(ctx, counterID)
	if err != nil {
		return stats.View{}, err
	}
	return temporal.Compute(events, g, s.clock.Now(), s.loc)
}

// Summary computes the overall statistics of counterID
func (s *ReportService) Summary(ctx context.Context, counterID core.CounterID) (stats.Summary, error) {
	events, err := s.fetch(ctx, counterID)
	if err != nil {
		return stats.Summary{}, err
	}
	return temporal.Summarize(events, s.clock.Now(), s.loc)
}

// Feed groups counterID's events by day, newest first
func (s *ReportService) Feed(ctx context.Context, counterID core.CounterID) ([]stats.FeedDay, error) {
	events, err := s.fetch(ctx, counterID)
	if err != nil {
		return nil, err
	}
	return temporal.Feed(events, s.loc)
}

// Dashboard computes all five views and the summary from one fetch. The
// views only read the shared event slice, so they run concurrently.
func (s *ReportService) Dashboard(ctx context.Context, counterID core.CounterID) (*Dashboard, error) {
	startTime := time.Now()
	events, err := s.fetch(ctx, counterID)
	if err != nil {
		return nil, err
	}

	reference := s.clock.Now()
	dashboard := &Dashboard{
		CounterID:   counterID,
		GeneratedAt: reference,
		Views:       make([]stats.View, len(core.Granularities)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, granularity := range core.Granularities {
		i, granularity := i, granularity
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			view, err := temporal.Compute(events, granularity, reference, s.loc)
			if err != nil {
				return errors.Wrapf(err, "failed to compute %s view", granularity)
			}
			dashboard.Views[i] = view
			return nil
		})
	}
	g.Go(func() error {
		summary, err := temporal.Summarize(events, reference, s.loc)
		if err != nil {
			return errors.Wrap(err, "failed to summarize events")
		}
		dashboard.Summary = summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("[ReportService] dashboard for %q: %d events in %.2fms",
		counterID, len(events), float64(time.Since(startTime).Nanoseconds())/1e6)
	return dashboard, nil
}

func (s *ReportService) fetch(ctx context.Context, counterID core.CounterID) ([]core.Event, error) {
	events, err := s.source.ListEvents(ctx, counterID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load events for counter %q", counterID)
	}
	s.logger.Debug("[ReportService] loaded %d events for counter %q", len(events), counterID)
	return events, nil
}
