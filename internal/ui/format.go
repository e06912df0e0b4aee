package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
)

// RowOpts configures event row printing.
type RowOpts struct {
	TitleWidth   int  // column width of the title, 0 = no padding
	ShowDate     bool // prefix the time span with the start date
	ShowDuration bool // append the duration
}

// typeSymbol returns the leading marker of an event row.
func typeSymbol(e *event.Event) string {
	switch {
	case e.Locked:
		return "◆"
	case e.IsReminder():
		return "»"
	default:
		return "●"
	}
}

// timeSpan renders when an event happens.
func timeSpan(e *event.Event, withDate bool) string {
	if e.IsMultiDay() {
		return fmt.Sprintf("%s %s → %s %s", e.StartDate, e.Start, e.EndDate, e.End)
	}
	span := fmt.Sprintf("%8s-%-8s", e.Start, e.End)
	if withDate {
		span = e.StartDate + " " + span
	}
	return span
}

// FormatEventRow renders one event as a single line.
func FormatEventRow(e *event.Event, opts RowOpts) string {
	title := e.Title
	if opts.TitleWidth > 0 {
		title = padRight(title, opts.TitleWidth)
	}
	row := fmt.Sprintf("  %s %s  %s  %s  %s",
		formatUrgency(e.Urgency, typeSymbol(e)),
		formatMuted(fmt.Sprintf("#%-4d", e.ID)),
		timeSpan(e, opts.ShowDate),
		title,
		formatUrgency(e.Urgency, "["+string(e.Urgency)+"]"),
	)
	if opts.ShowDuration {
		row += "  " + formatMuted(FormatDuration(DurationMinutes(e)))
	}
	return row
}

// PrintEventDetails prints every field of an event.
func PrintEventDetails(w io.Writer, e *event.Event) {
	fmt.Fprintf(w, "%s %s\n", formatUrgency(e.Urgency, typeSymbol(e)), formatHeader(e.Title))
	fmt.Fprintf(w, "  id:          %d\n", e.ID)
	fmt.Fprintf(w, "  when:        %s\n", timeSpan(e, true))
	fmt.Fprintf(w, "  type:        %s\n", e.Type)
	fmt.Fprintf(w, "  urgency:     %s\n", formatUrgency(e.Urgency, string(e.Urgency)))
	fmt.Fprintf(w, "  locked:      %t\n", e.Locked)
	if e.Description != "" {
		fmt.Fprintf(w, "  description: %s\n", e.Description)
	}
}

// titleWidth returns the column width that fits every title, capped so a
// row stays within the terminal.
func titleWidth(events []*event.Event) int {
	limit := max(12, termWidth()-50)
	w := 0
	for _, e := range events {
		w = max(w, runewidth.StringWidth(e.Title))
	}
	return min(w, limit)
}

// padRight pads or truncates s to exactly width terminal cells.
func padRight(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// DurationMinutes returns the length of an event in minutes.
func DurationMinutes(e *event.Event) int {
	start, err := e.StartTime(time.Local)
	if err != nil {
		return 0
	}
	end, err := e.EndTime(time.Local)
	if err != nil {
		return 0
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1) // "12:00 AM" end of day
	}
	return int(end.Sub(start) / time.Minute)
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// parseDate resolves a date flag: YYYY-MM-DD, today, tomorrow or a weekday.
func parseDate(s string, now time.Time) (string, error) {
	t, err := dateutil.ParseRelativeDate(s, now)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return dateutil.Format(t), nil
}

// parseID parses an event id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid event id %q", s)
	}
	return id, nil
}

// wrap breaks text into lines of at most width cells.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := ""
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	return append(lines, line)
}
