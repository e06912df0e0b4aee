package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/event"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date        string
		endDate     string
		start       string
		end         string
		description string
		urgency     string
		kind        string
		locked      bool
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new event",
		Long: `Add a new event to your calendar.

Times accept "9:00 AM", "9:00am" or "14:30". Dates accept YYYY-MM-DD,
today, tomorrow or a weekday name. An event ending on a later date is
drawn as a band across the days it spans.`,
		Example: `  eventide add "Standup" --start=9:00AM --end=9:15AM
  eventide add "Offsite" --date=2025-03-10 --end-date=2025-03-12 --start=9:00am --end=5:00pm
  eventide add "Call mom" --type=reminder --start=18:00 --end=18:15 --urgency=important`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			now := time.Now()
			startDate, err := parseDate(date, now)
			if err != nil {
				return err
			}
			lastDate := startDate
			if endDate != "" {
				if lastDate, err = parseDate(endDate, now); err != nil {
					return err
				}
			}

			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			e, err := event.New(title, startDate, lastDate, start, end)
			if err != nil {
				return err
			}
			e.Description = description
			e.Urgency = event.Urgency(urgency)
			e.Type = event.Type(kind)
			e.Locked = locked
			e.ApplyDefaults()
			if err := e.Validate(); err != nil {
				return err
			}

			if err := a.repo.Create(context.Background(), e); err != nil {
				return fmt.Errorf("creating event: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d: %s %s\n",
				formatOK("Created event"), e.ID, e.Title, timeSpan(e, true))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Start date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "End date for multi-day events (default: start date)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (required)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "Description")
	cmd.Flags().StringVar(&urgency, "urgency", string(event.UrgencyTrivial), "Urgency: trivial, ongoing, attention-needed, important, critical")
	cmd.Flags().StringVar(&kind, "type", string(event.TypeEvent), "Type: event or reminder")
	cmd.Flags().BoolVar(&locked, "locked", false, "Lock the event against edits")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
