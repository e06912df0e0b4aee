package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/ics"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as iCalendar",
		Long: `Write the events touching a date range as an iCalendar (.ics) file.

Without --start every event is exported. Without --out the calendar is
written to stdout.`,
		Example: `  eventide export --out=calendar.ics
  eventide export --start=2025-03-01 --end=2025-03-31 --out=march.ics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			now := time.Now()
			var err error
			var events []*event.Event
			if startDate == "" {
				events, err = a.repo.ListAll(ctx)
			} else {
				events, err = a.listRange(startDate, endDate, now)
			}
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				path, err := resolvePath(outPath)
				if err != nil {
					return err
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := ics.Export(w, events, now); err != nil {
				return fmt.Errorf("exporting events: %w", err)
			}
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d events to %s\n", formatOK("Exported"), len(events), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (default: every event)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (default: start date)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: stdout)")
	return cmd
}
