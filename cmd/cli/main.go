package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tally/adapters/stats/temporal"
	"tally/domain/core"
	"tally/internal"
	"tally/internal/container"
	"tally/internal/errors"
	"tally/internal/ratio"
	"tally/internal/testkit"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "tally",
		Short:         "Temporal statistics for counter event streams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newViewCmd(),
		newDashboardCmd(),
		newSummaryCmd(),
		newFeedCmd(),
		newCountersCmd(),
		newHumanizeCmd(),
		newRangeCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newViewCmd() *cobra.Command {
	var counter string

	cmd := &cobra.Command{
		Use:   "view [granularity]",
		Short: "Bin a counter's events by year, month, weekday, day or hour",
		Long: `Bin a counter's events into one granularity and print the buckets as JSON.

YEAR and MONTH buckets carry daily averages and running totals; WEEKDAY starts
on Monday; DAY is zero-filled up to now; HOUR always has 24 buckets.

Example: tally view month --counter 0190a7b2-1c3d-7e4f-8a9b-0c1d2e3f4a5b`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := core.ParseGranularity(args[0])
			if err != nil {
				return errors.WithCode(errors.CodeInvalidInput, err)
			}
			return withReports(cmd.Context(), counter, func(ctx context.Context, c *container.Container, id core.CounterID) error {
				view, err := c.Reports.View(ctx, id, g)
				if err != nil {
					return err
				}
				return printJSON(view)
			})
		},
	}

	cmd.Flags().StringVar(&counter, "counter", "", "Counter ID (UUID); empty means every event in the source")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	var counter string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Compute every view and the summary of a counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd.Context(), counter, func(ctx context.Context, c *container.Container, id core.CounterID) error {
				dashboard, err := c.Reports.Dashboard(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(dashboard)
			})
		},
	}

	cmd.Flags().StringVar(&counter, "counter", "", "Counter ID (UUID); empty means every event in the source")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var counter string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print total, daily average and spread of a counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd.Context(), counter, func(ctx context.Context, c *container.Container, id core.CounterID) error {
				summary, err := c.Reports.Summary(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(summary)
			})
		},
	}

	cmd.Flags().StringVar(&counter, "counter", "", "Counter ID (UUID); empty means every event in the source")
	return cmd
}

func newFeedCmd() *cobra.Command {
	var counter string
	var limit int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List a counter's events grouped by day, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd.Context(), counter, func(ctx context.Context, c *container.Container, id core.CounterID) error {
				feed, err := c.Reports.Feed(ctx, id)
				if err != nil {
					return err
				}
				if limit > 0 && len(feed) > limit {
					feed = feed[:limit]
				}
				return printJSON(feed)
			})
		},
	}

	cmd.Flags().StringVar(&counter, "counter", "", "Counter ID (UUID); empty means every event in the source")
	cmd.Flags().IntVar(&limit, "days", 0, "Only print the most recent N days (0 prints all)")
	return cmd
}

func newCountersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counters",
		Short: "List the counters of a database source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd.Context(), "", func(ctx context.Context, c *container.Container, _ core.CounterID) error {
				if c.Catalog == nil {
					return errors.InvalidInput("the file source has no counter catalog; use TALLY_SOURCE=postgres or sqlite")
				}
				counters, err := c.Catalog.ListCounters(ctx)
				if err != nil {
					return err
				}
				return printJSON(counters)
			})
		},
	}
}

func newHumanizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "humanize [average]",
		Short: "Render a daily average as \"N every M days\"",
		Long: `Render a daily average as the smallest whole-number ratio.

Example: tally humanize 0.1   # 1 every 10 days`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			average, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.InvalidInput(fmt.Sprintf("not a number: %q", args[0]))
			}
			n, d := ratio.Fraction(average)
			return printJSON(map[string]interface{}{
				"average":     average,
				"numerator":   n,
				"denominator": d,
				"text":        ratio.Humanize(average),
			})
		},
	}
}

func newRangeCmd() *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "range [start] [end]",
		Short: "List the calendar days between two dates (inclusive)",
		Long: `List calendar days from start to end, both YYYY-MM-DD, in the TALLY_TIMEZONE calendar.

Example: tally range 2024-02-27 2024-03-02 --step 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := core.TimeReference(os.Getenv("TALLY_TIMEZONE")).Location()

			start, err := time.ParseInLocation("2006-01-02", args[0], loc)
			if err != nil {
				return errors.InvalidInput(fmt.Sprintf("invalid start date %q (use YYYY-MM-DD)", args[0]))
			}
			end, err := time.ParseInLocation("2006-01-02", args[1], loc)
			if err != nil {
				return errors.InvalidInput(fmt.Sprintf("invalid end date %q (use YYYY-MM-DD)", args[1]))
			}

			days := temporal.ExpandDays(start, end, step, loc)
			labels := make([]string, len(days))
			for i, day := range days {
				labels[i] = day.Format("2006-01-02")
			}
			return printJSON(labels)
		},
	}

	cmd.Flags().IntVar(&step, "step", 1, "Days between consecutive dates")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var seed int64
	var perDay float64
	var shuffle bool
	var counter string

	cmd := &cobra.Command{
		Use:   "generate [output.csv]",
		Short: "Write a synthetic counter event file for trying the other commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := testkit.DefaultCounterConfig()
			config.Seed = seed
			config.EventsPerDay = perDay
			config.Shuffle = shuffle

			counterID, err := core.ParseCounterID(counter)
			if err != nil {
				return errors.WithCode(errors.CodeInvalidInput, err)
			}

			events := testkit.NewCounterEventGenerator(config).GenerateEvents()
			counterID, err = testkit.WriteCSV(args[0], counterID, events)
			if err != nil {
				return errors.Wrap(err, "failed to write events")
			}
			internal.DefaultLogger.Info("wrote %d events for counter %s to %s", len(events), counterID, args[0])
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")
	cmd.Flags().Float64Var(&perDay, "per-day", 1.5, "Mean number of events per day")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Write events out of chronological order")
	cmd.Flags().StringVar(&counter, "counter", "", "Counter ID written to the counterRef column (minted when empty)")
	return cmd
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
