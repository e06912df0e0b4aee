package ui

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/layout"
)

const (
	showTimeWidth = 9 // "12:00 PM" plus a gap
	showMinColW   = 12
	showMaxColW   = 40
)

// urgencyPalette maps urgency badge colors to ANSI colors.
var urgencyPalette = map[string]lipgloss.Color{
	"black":  lipgloss.Color("8"),
	"blue":   lipgloss.Color("4"),
	"orange": lipgloss.Color("208"),
	"red":    lipgloss.Color("1"),
	"purple": lipgloss.Color("5"),
}

func (a *App) showCmd() *cobra.Command {
	var (
		date    string
		mode    string
		until   string
		step    int
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the time grid",
		Long: `Print the day grid for the displayed dates without opening the TUI.

Overlapping events share their column side by side and multi-day events
are drawn as bands above the grid. Each row covers --step minutes.`,
		Example: `  eventide show
  eventide show --mode=week --date=monday
  eventide show --mode=range --date=2025-03-10 --until=2025-03-14 --step=15`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			dates, err := a.displayDates(date, mode, until)
			if err != nil {
				return err
			}

			lc, err := a.config.Layout()
			if err != nil {
				return err
			}
			events, err := a.repo.ListByRange(context.Background(), dates[0], dates[len(dates)-1])
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			g := layout.Build(events, dates, lc, a.logger().WithComponent("layout"))
			renderGrid(cmd.OutOrStdout(), g, step, termWidth(), dateutil.Today())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "First displayed date (default: today)")
	cmd.Flags().StringVar(&mode, "mode", "", "View mode: single, week or range (default: view.mode)")
	cmd.Flags().StringVar(&until, "until", "", "Last date of a range view")
	cmd.Flags().IntVar(&step, "step", 30, "Minutes per row")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// gridPrinter lays a grid out on text cells.
type gridPrinter struct {
	g    layout.Grid
	rows int
	step int
	colW int
}

// renderGrid prints g as text columns of at most width cells.
func renderGrid(w io.Writer, g layout.Grid, step, width int, today string) {
	if step <= 0 {
		step = 30
	}
	cols := max(1, len(g.Columns))
	p := gridPrinter{
		g:    g,
		step: step,
		rows: max(1, g.Axis.Minutes()/step),
		colW: min(showMaxColW, max(showMinColW, (width-showTimeWidth)/cols-1)),
	}

	fmt.Fprintln(w, p.header(today))
	for _, line := range p.bands() {
		fmt.Fprintln(w, line)
	}

	columns := make([][]string, len(g.Columns))
	for i, c := range g.Columns {
		columns[i] = p.column(c)
	}
	sep := lipgloss.NewStyle().Faint(true).Render("│")
	for r := 0; r < p.rows; r++ {
		var b strings.Builder
		b.WriteString(p.timeLabel(r))
		for _, col := range columns {
			b.WriteString(sep)
			b.WriteString(col[r])
		}
		fmt.Fprintln(w, b.String())
	}
}

func (p gridPrinter) header(today string) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", showTimeWidth))
	for _, d := range p.g.Dates {
		label := d
		if t, err := dateutil.ParseDate(d); err == nil {
			label = t.Format("Mon 01-02")
		}
		style := lipgloss.NewStyle().Bold(true).Width(p.colW).Align(lipgloss.Center)
		if d == today {
			style = style.Underline(true)
		}
		b.WriteString(" ")
		b.WriteString(style.Render(label))
	}
	return b.String()
}

// bands renders one line per multi-day band, spanning its columns.
func (p gridPrinter) bands() []string {
	lines := make([]string, 0, len(p.g.Bands))
	for _, band := range p.g.Bands {
		left := showTimeWidth + band.StartColumn*(p.colW+1) + 1
		span := (band.EndColumn-band.StartColumn+1)*(p.colW+1) - 1
		label := fitCells(fmt.Sprintf("▬ %s  %s → %s", band.Event.Title, band.Event.StartDate, band.Event.EndDate), span)
		style := lipgloss.NewStyle().Reverse(true).Foreground(urgencyColor(band.Event.Urgency))
		lines = append(lines, strings.Repeat(" ", left)+style.Render(label))
	}
	return lines
}

func (p gridPrinter) timeLabel(row int) string {
	m := p.g.Axis.StartHour*60 + row*p.step
	if m%60 != 0 && row != 0 {
		return strings.Repeat(" ", showTimeWidth)
	}
	return fmt.Sprintf("%8s ", event.FormatMinutes(m))
}

// column renders the rows of one day column. Each block paints its lane
// cells; its first row carries the title and its second the time span.
func (p gridPrinter) column(c layout.Column) []string {
	owner := make([][]int, p.rows)
	text := make([][]string, p.rows)
	for r := range owner {
		owner[r] = make([]int, p.colW)
		text[r] = make([]string, p.colW)
		for x := range owner[r] {
			owner[r][x] = -1
			text[r][x] = " "
		}
	}

	for i, b := range c.Blocks {
		top, height := p.rowSpan(b)
		left, width := p.cellSpan(b)
		for r := top; r < top+height; r++ {
			for x := left; x < left+width; x++ {
				owner[r][x] = i
				text[r][x] = "░"
			}
		}
		label := b.Event.Title
		if b.Event.Locked {
			label = "◆ " + label
		}
		writeCells(text[top], left, width, label)
		if height > 1 {
			writeCells(text[top+1], left, width, b.Event.Start+"-"+b.Event.End)
		}
	}

	lines := make([]string, p.rows)
	for r := range lines {
		var b strings.Builder
		for x := 0; x < p.colW; {
			end := x
			for end < p.colW && owner[r][end] == owner[r][x] {
				end++
			}
			run := strings.Join(text[r][x:end], "")
			if i := owner[r][x]; i >= 0 {
				run = lipgloss.NewStyle().Foreground(urgencyColor(c.Blocks[i].Event.Urgency)).Render(run)
			}
			b.WriteString(run)
			x = end
		}
		lines[r] = b.String()
	}
	return lines
}

func (p gridPrinter) rowSpan(b layout.Block) (top, height int) {
	rowOf := func(percent float64) int {
		return int(math.Round(percent / 100 * float64(p.rows)))
	}
	top = min(rowOf(b.TopPercent), p.rows-1)
	bottom := min(rowOf(b.TopPercent+b.HeightPercent), p.rows)
	return top, max(1, bottom-top)
}

func (p gridPrinter) cellSpan(b layout.Block) (left, width int) {
	left = min(int(b.LeftPercent/100*float64(p.colW)), p.colW-1)
	right := int(math.Round((b.LeftPercent + b.WidthPercent) / 100 * float64(p.colW)))
	return left, max(1, min(right, p.colW)-left)
}

// writeCells writes s into cells[left:left+width]. A wide rune takes two
// cells, the second one left empty.
func writeCells(cells []string, left, width int, s string) {
	x := left
	for _, r := range runewidth.Truncate(s, width, "…") {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > left+width {
			break
		}
		cells[x] = string(r)
		if rw == 2 {
			cells[x+1] = ""
		}
		x += rw
	}
}

// fitCells pads or truncates s to exactly width cells.
func fitCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return padRight(s, width)
}

func urgencyColor(u event.Urgency) lipgloss.Color {
	return urgencyPalette[u.Color()]
}
