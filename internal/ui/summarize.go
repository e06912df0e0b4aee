package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) summarizeCmd() *cobra.Command {
	var (
		date  string
		mode  string
		until string
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize the displayed dates in one line",
		Example: `  eventide summarize
  eventide summarize --mode=week --date=monday`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			dates, err := a.displayDates(date, mode, until)
			if err != nil {
				return err
			}
			sum, err := a.summarizer()
			if err != nil {
				return err
			}
			s, err := a.loadSchedule(dates)
			if err != nil {
				return err
			}

			summary, err := sum.Summarize(context.Background(), s.Events())
			if err != nil {
				return fmt.Errorf("summarizing: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatHeader("Summary"))
			for _, line := range wrap(summary, max(20, termWidth()-4)) {
				fmt.Fprintf(out, "  %s\n", line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "First displayed date (default: today)")
	cmd.Flags().StringVar(&mode, "mode", "", "View mode: single, week or range (default: view.mode)")
	cmd.Flags().StringVar(&until, "until", "", "Last date of a range view")
	return cmd
}
