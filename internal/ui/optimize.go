package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/schedule"
)

func (a *App) optimizeCmd() *cobra.Command {
	var (
		date  string
		mode  string
		until string
		allow []string
		apply bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Ask the model for a better schedule",
		Long: `Send the displayed dates to the configured model and preview the
schedule it proposes.

--allow limits what the model may change: times, dates, locked, name,
description and urgency. Locked events are never changed unless locked
is allowed.

After the proposal is shown you can:
  - [a]ccept: Save the changed events
  - [c]ancel: Exit without saving`,
		Example: `  eventide optimize
  eventide optimize --mode=week --allow=times,dates
  eventide optimize --date=tomorrow --apply`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			mask, err := event.ParseMask(allow)
			if err != nil {
				return err
			}
			dates, err := a.displayDates(date, mode, until)
			if err != nil {
				return err
			}
			opt, err := a.optimizer()
			if err != nil {
				return err
			}

			s, err := a.loadSchedule(dates)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Optimizing schedule...")
			preview, err := s.Optimize(context.Background(), opt, mask)
			if err != nil {
				return err
			}
			if preview.Message != "" {
				fmt.Fprintf(out, "%s %s\n", formatHeader("Verdict:"), preview.Message)
				return nil
			}
			if !preview.HasChanges() {
				fmt.Fprintln(out, "The proposed schedule changes nothing.")
				return nil
			}

			printPreview(out, s, preview)

			if !apply {
				reader := bufio.NewReader(cmd.InOrStdin())
				for accepted := false; !accepted; {
					fmt.Fprint(out, "\n[a]ccept / [c]ancel: ")
					choice, err := reader.ReadString('\n')
					if err != nil && (err != io.EOF || choice == "") {
						fmt.Fprintln(out, "\nOptimization cancelled.")
						return nil
					}
					switch strings.TrimSpace(strings.ToLower(choice)) {
					case "a", "accept":
						accepted = true
					case "c", "cancel":
						fmt.Fprintln(out, "Optimization cancelled.")
						return nil
					default:
						fmt.Fprintln(out, "Invalid choice. Please enter 'a' or 'c'.")
					}
				}
			}

			save, err := s.AcceptPreview(preview)
			if err != nil {
				return err
			}
			if save == nil {
				fmt.Fprintln(out, "Nothing to save: every changed event is locked.")
				return nil
			}
			if err := save(context.Background()); err != nil {
				return fmt.Errorf("saving optimized schedule: %w", err)
			}
			fmt.Fprintln(out, formatOK("Saved the optimized schedule."))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "First displayed date (default: today)")
	cmd.Flags().StringVar(&mode, "mode", "", "View mode: single, week or range (default: view.mode)")
	cmd.Flags().StringVar(&until, "until", "", "Last date of a range view")
	cmd.Flags().StringSliceVar(&allow, "allow", []string{string(event.FieldTimes)}, "Fields the model may change")
	cmd.Flags().BoolVar(&apply, "apply", false, "Save the proposal without asking")

	return cmd
}

// displayDates resolves the date flags shared by show and optimize.
func (a *App) displayDates(date, mode, until string) ([]string, error) {
	now := time.Now()
	anchor, err := parseDate(date, now)
	if err != nil {
		return nil, err
	}
	end := ""
	if until != "" {
		if end, err = parseDate(until, now); err != nil {
			return nil, err
		}
	}
	if mode == "" {
		mode = a.config.View.Mode
	}
	vm, err := dateutil.ParseViewMode(mode)
	if err != nil {
		return nil, err
	}
	if vm == dateutil.ViewCustom {
		return nil, fmt.Errorf("custom dates are picked in the TUI, use --mode=range instead")
	}
	return dateutil.DisplayDates(vm, anchor, end, nil)
}

// loadSchedule loads the events of dates into a schedule.
func (a *App) loadSchedule(dates []string) (*schedule.Schedule, error) {
	lc, err := a.config.Layout()
	if err != nil {
		return nil, err
	}
	s := schedule.New(a.repo, lc, a.logger().WithComponent("schedule"))
	if err := s.Load(context.Background(), dates); err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	return s, nil
}

// printPreview lists each changed event before and after.
func printPreview(w io.Writer, s *schedule.Schedule, p *schedule.Preview) {
	fmt.Fprintf(w, "\n%s (%s)\n", formatHeader("Proposed changes"), strings.Join(p.Mask.Names(), ", "))
	opts := RowOpts{TitleWidth: titleWidth(p.Changed), ShowDate: true}
	for _, next := range p.Changed {
		if prev, ok := s.Get(next.ID); ok {
			fmt.Fprintln(w, formatMuted(FormatEventRow(prev, opts)))
		}
		fmt.Fprintln(w, FormatEventRow(next, opts))
	}
}
