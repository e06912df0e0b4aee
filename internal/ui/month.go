package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
)

func (a *App) monthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show a month calendar with event counts",
		Long: `Show a month page, weeks starting on Sunday, with the number of events
touching each day. Days of the neighbouring months are dimmed.`,
		Example: `  eventide month
  eventide month 2025-03`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			now := time.Now()
			year, month := now.Year(), now.Month()
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("invalid month %q: expected YYYY-MM", args[0])
				}
				year, month = t.Year(), t.Month()
			}

			grid := dateutil.MonthGrid(year, month)
			from := dateutil.Format(grid[0][0])
			to := dateutil.Format(grid[5][6])
			events, err := a.repo.ListByRange(context.Background(), from, to)
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderMonth(grid, month, events, dateutil.Format(now)))
			return nil
		},
	}
	return cmd
}

// renderMonth draws a month page as a table. Each cell holds the day of
// the month and the number of events touching that day.
func renderMonth(grid [6][7]time.Time, month time.Month, events []*event.Event, today string) string {
	var (
		rows   [6][]string
		styles [6][7]lipgloss.Style
	)
	base := lipgloss.NewStyle().Padding(0, 1).Width(8)
	for w := range grid {
		rows[w] = make([]string, 7)
		for d, day := range grid[w] {
			date := dateutil.Format(day)
			count := 0
			for _, e := range events {
				if e.OccursOn(date) {
					count++
				}
			}

			cell := fmt.Sprintf("%2d", day.Day())
			if count > 0 {
				cell += fmt.Sprintf("\n%d ev", count)
			}
			rows[w][d] = cell

			style := base
			switch {
			case day.Month() != month:
				style = style.Faint(true)
			case date == today:
				style = style.Bold(true).Underline(true)
			}
			if count > 0 && day.Month() == month {
				style = style.Foreground(urgencyPalette["blue"])
			}
			styles[w][d] = style
		}
	}

	title := lipgloss.NewStyle().Bold(true).
		Render(fmt.Sprintf("%s %d", month, grid[1][0].Year()))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		Headers("Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return base.Bold(true).Align(lipgloss.Center)
			}
			if row < 0 || row >= len(rows) || col < 0 || col >= 7 {
				return base
			}
			return styles[row][col]
		})
	for _, r := range rows {
		t.Row(r...)
	}
	return title + "\n" + t.Render()
}
