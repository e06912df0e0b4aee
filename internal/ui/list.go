package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in a date range",
		Long: `List all events touching a date range.

If no dates are specified, lists today's events.
If only --start is specified, lists events for that single day.
If both --start and --end are specified, lists events in that range (inclusive).
Multi-day events are listed once, under the date they start.`,
		Example: `  eventide list
  eventide list --start=tomorrow
  eventide list --start=2025-01-15 --end=2025-01-20`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			events, err := a.listRange(startDate, endDate, time.Now())
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			if len(events) == 0 {
				fmt.Fprintln(out, "No events found in the specified date range.")
				return nil
			}

			opts := RowOpts{TitleWidth: titleWidth(events), ShowDuration: true}
			var currentDate string
			for _, e := range events {
				if e.StartDate != currentDate {
					if currentDate != "" {
						fmt.Fprintln(out)
					}
					fmt.Fprintln(out, formatHeader(fmt.Sprintf("=== %s ===", e.StartDate)))
					currentDate = e.StartDate
				}
				fmt.Fprintln(out, FormatEventRow(e, opts))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")

	return cmd
}

// listRange lists the events touching the dates from start to end. An
// empty end means the start date alone.
func (a *App) listRange(start, end string, now time.Time) ([]*event.Event, error) {
	from, err := parseDate(start, now)
	if err != nil {
		return nil, err
	}
	to := from
	if end != "" {
		if to, err = parseDate(end, now); err != nil {
			return nil, err
		}
	}
	if _, err := dateutil.NewDateRange(from, to); err != nil {
		return nil, err
	}
	return a.repo.ListByRange(context.Background(), from, to)
}
