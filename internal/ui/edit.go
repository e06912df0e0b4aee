package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/schedule"
)

func (a *App) editCmd() *cobra.Command {
	var (
		title       string
		date        string
		endDate     string
		start       string
		end         string
		description string
		urgency     string
		kind        string
	)

	cmd := &cobra.Command{
		Use:   "edit <event-id>",
		Short: "Change fields of an event",
		Long: `Change the fields of an event. Only the flags given are changed.

Moving the start date keeps the event's length in days unless --end-date
is given too. Locked events cannot be edited; unlock them first with
'eventide lock <id> --off'.`,
		Example: `  eventide edit 12 --start=10:00AM --end=11:00AM
  eventide edit 12 --date=tomorrow
  eventide edit 12 --title="Design review" --urgency=important`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			e, err := a.repo.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("fetching event #%d: %w", id, err)
			}
			if e.Locked {
				return &schedule.LockedError{Op: "edit"}
			}

			flags := cmd.Flags()
			now := time.Now()
			if flags.Changed("date") {
				d, err := parseDate(date, now)
				if err != nil {
					return err
				}
				if !flags.Changed("end-date") {
					if endDate, err = shiftEndDate(e, d); err != nil {
						return err
					}
				}
				e.StartDate = d
				if !flags.Changed("end-date") {
					e.EndDate = endDate
				}
			}
			if flags.Changed("end-date") {
				if e.EndDate, err = parseDate(endDate, now); err != nil {
					return err
				}
			}
			if flags.Changed("title") {
				e.Title = title
			}
			if flags.Changed("start") {
				e.Start = start
			}
			if flags.Changed("end") {
				e.End = end
			}
			if flags.Changed("description") {
				e.Description = description
			}
			if flags.Changed("urgency") {
				e.Urgency = event.Urgency(urgency)
			}
			if flags.Changed("type") {
				e.Type = event.Type(kind)
			}

			if err := e.Normalize(); err != nil {
				return err
			}
			if err := a.repo.Update(ctx, e); err != nil {
				return fmt.Errorf("updating event #%d: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d: %s %s\n",
				formatOK("Updated event"), e.ID, e.Title, timeSpan(e, true))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&date, "date", "", "New start date")
	cmd.Flags().StringVar(&endDate, "end-date", "", "New end date")
	cmd.Flags().StringVar(&start, "start", "", "New start time")
	cmd.Flags().StringVar(&end, "end", "", "New end time")
	cmd.Flags().StringVarP(&description, "description", "m", "", "New description")
	cmd.Flags().StringVar(&urgency, "urgency", "", "New urgency")
	cmd.Flags().StringVar(&kind, "type", "", "New type: event or reminder")

	return cmd
}

// shiftEndDate returns the end date of e after moving its start to date.
func shiftEndDate(e *event.Event, date string) (string, error) {
	from, err := time.Parse(event.DateLayout, e.StartDate)
	if err != nil {
		return "", err
	}
	to, err := time.Parse(event.DateLayout, e.EndDate)
	if err != nil {
		return "", err
	}
	next, err := time.Parse(event.DateLayout, date)
	if err != nil {
		return "", err
	}
	days := int(to.Sub(from).Hours() / 24)
	return next.AddDate(0, 0, days).Format(event.DateLayout), nil
}
