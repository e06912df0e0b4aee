package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/llm"
)

func (a *App) generateCmd() *cobra.Command {
	var (
		date     string
		schedule bool
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample events with the model",
		Long: `Ask the configured model for one realistic event, or a whole day with
--schedule. The events are printed; --save stores them too.`,
		Example: `  eventide generate
  eventide generate --schedule --date=tomorrow --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if save {
				if err := a.ensureRepo(); err != nil {
					return err
				}
			}

			day, err := parseDate(date, time.Now())
			if err != nil {
				return err
			}
			client, err := a.llmClient()
			if err != nil {
				return err
			}
			gen := llm.NewGenerator(client, a.logger().WithComponent("generator"))

			ctx := context.Background()
			var events []*event.Event
			if schedule {
				if events, err = gen.GenerateSchedule(ctx, day); err != nil {
					return err
				}
			} else {
				e, err := gen.GenerateEvent(ctx, day)
				if err != nil {
					return err
				}
				events = []*event.Event{e}
			}

			out := cmd.OutOrStdout()
			if save {
				for _, e := range events {
					if err := a.repo.Create(ctx, e); err != nil {
						return fmt.Errorf("creating event %q: %w", e.Title, err)
					}
				}
			}

			opts := RowOpts{TitleWidth: titleWidth(events), ShowDate: true}
			for _, e := range events {
				fmt.Fprintln(out, FormatEventRow(e, opts))
			}
			if save {
				fmt.Fprintf(out, "\n%s %d events\n", formatOK("Saved"), len(events))
			} else {
				fmt.Fprintln(out, formatMuted("\n(not saved, use --save to keep them)"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date of the events (default: today)")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "Generate a whole day instead of one event")
	cmd.Flags().BoolVar(&save, "save", false, "Store the generated events")
	return cmd
}
