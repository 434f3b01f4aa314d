package main

import (
	"context"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"tally/domain/core"
	"tally/internal/config"
	"tally/internal/container"
	"tally/internal/errors"
)

// withReports loads configuration, wires the configured event source and
// runs fn with a context bounded by the query timeout.
func withReports(ctx context.Context, counter string, fn func(context.Context, *container.Container, core.CounterID) error) error {
	counterID, err := core.ParseCounterID(counter)
	if err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Source.QueryTimeout)
	defer cancel()

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	if err := c.Init(ctx); err != nil {
		return err
	}
	defer c.Shutdown(ctx)

	return fn(ctx, c, counterID)
}
