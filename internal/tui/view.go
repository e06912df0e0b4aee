package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/layout"
)

const (
	lockedMark   = "◆ "
	reminderMark = "» "
	ellipsis     = "…"
)

// View renders the TUI.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	g := m.grid()
	f := m.frame(g)
	if f.rows < 3 || m.width < timeColWidth+minColWidth+1 {
		return "Terminal too small"
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle(g))
	lines = append(lines, m.renderDayHeaders(g, f))
	lines = append(lines, m.renderBands(g, f)...)

	side := m.renderSidePanel(g, f)
	for r := 0; r < f.rows; r++ {
		line := m.renderGridRow(g, f, r)
		if f.sideW > 0 {
			line += side[r]
		}
		lines = append(lines, line)
	}
	lines = append(lines, m.renderStatus(), m.renderHelp())

	out := m.fill(lines)
	if m.mode == ModeSummary {
		out = overlayCenter(out, m.renderSummaryModal(), m.width, m.height)
	}
	return out
}

func (m Model) renderTitle(g layout.Grid) string {
	if m.mode == ModePreview && m.preview != nil {
		return m.styles.BannerStyle.Render(fmt.Sprintf(
			"Proposed schedule: %d changes  enter accept  esc discard", len(m.preview.Changed)))
	}
	span := ""
	if n := len(g.Dates); n > 0 {
		span = g.Dates[0]
		if n > 1 {
			span += " → " + g.Dates[n-1]
		}
	}
	title := m.styles.TitleStyle.Render("eventide")
	meta := m.styles.TimeColumnStyle.Render(fmt.Sprintf("  %s  %s  %s", m.viewMode, span, g.Window))
	if m.loading {
		meta += m.styles.StatusStyle.Render("  loading...")
	}
	line := title + meta
	if legend := m.renderLegend(); lipgloss.Width(line)+lipgloss.Width(legend)+4 <= m.width {
		line += m.styles.TimeColumnStyle.Render("    ") + legend
	}
	return line
}

func (m Model) renderDayHeaders(g layout.Grid, f frame) string {
	today := dateutil.Format(m.now())
	var b strings.Builder
	b.WriteString(m.styles.TimeColumnStyle.Render(strings.Repeat(" ", timeColWidth)))
	for i, c := range g.Columns {
		b.WriteString(m.styles.SeparatorStyle.Render("│"))
		style := m.styles.DayHeaderStyle
		if c.Date == today {
			style = m.styles.DayHeaderTodayStyle
		}
		label := dayLabel(c.Date)
		if i == m.column && m.mode != ModePreview {
			label = "[" + label + "]"
		}
		b.WriteString(style.Width(f.colW).Render(ansi.Truncate(label, f.colW, "")))
	}
	return b.String()
}

func dayLabel(date string) string {
	t, err := dateutil.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon 01-02")
}

// renderBands draws one row per multi-day band across its columns.
func (m Model) renderBands(g layout.Grid, f frame) []string {
	lines := make([]string, 0, len(g.Bands))
	for _, band := range g.Bands {
		x, width := f.bandSpan(band)
		style := m.styles.BandStyle
		if band.Event.ID == m.selected {
			style = m.styles.SelectedStyle
		}
		label := " " + markFor(band.Event) + band.Event.Title + "  " + band.Event.StartDate + " → " + band.Event.EndDate
		var b strings.Builder
		b.WriteString(m.styles.EmptyCellStyle.Render(strings.Repeat(" ", x)))
		b.WriteString(style.Render(fit(label, width)))
		lines = append(lines, b.String())
	}
	return lines
}

// markFor returns the title prefix of locked events and reminders.
func markFor(e *event.Event) string {
	switch {
	case e.Locked:
		return lockedMark
	case e.IsReminder():
		return reminderMark
	default:
		return ""
	}
}

// renderLegend draws one colored marker per urgency.
func (m Model) renderLegend() string {
	parts := make([]string, 0, len(event.Urgencies))
	for _, u := range event.Urgencies {
		parts = append(parts, m.styles.badgeStyle(u).Render("●")+m.styles.TimeColumnStyle.Render(" "+string(u)))
	}
	return strings.Join(parts, m.styles.TimeColumnStyle.Render("  "))
}

// renderGridRow draws the time label and every day column for row r.
func (m Model) renderGridRow(g layout.Grid, f frame, r int) string {
	mpr := f.minutesPerRow(g.Axis)
	rowStart := float64(g.Axis.StartHour*60) + float64(r)*mpr
	hour := hourAt(rowStart)
	hourRow := float64(hour*60) < rowStart+mpr

	var b strings.Builder
	label := ""
	if hourRow {
		label = event.FormatHour(hour)
	}
	b.WriteString(m.styles.TimeColumnStyle.Render(fmt.Sprintf("%8s ", label)))

	today := dateutil.Format(m.now())
	nowMin := float64(m.now().Hour()*60 + m.now().Minute())
	for _, col := range g.Columns {
		b.WriteString(m.styles.SeparatorStyle.Render("│"))
		nowRow := col.Date == today && nowMin >= rowStart && nowMin < rowStart+mpr
		b.WriteString(m.renderCell(col, f, r, hourRow, nowRow))
	}
	return b.String()
}

// hourAt returns the first whole hour at or after minute start.
func hourAt(start float64) int {
	return (int(math.Ceil(start)) + 59) / 60
}

// renderCell draws one row of one day column: the blocks covering it,
// left to right, with later lanes painted over earlier ones.
func (m Model) renderCell(col layout.Column, f frame, r int, hourRow, nowRow bool) string {
	owner := make([]int, f.colW)
	for i := range owner {
		owner[i] = -1
	}
	for i, blk := range col.Blocks {
		top, height := f.rowSpan(blk)
		if r < top || r >= top+height {
			continue
		}
		left, width := f.cellSpan(blk)
		for x := left; x < left+width && x < f.colW; x++ {
			owner[x] = i
		}
	}

	var b strings.Builder
	for x := 0; x < f.colW; {
		o := owner[x]
		end := x
		for end < f.colW && owner[end] == o {
			end++
		}
		width := end - x
		if o < 0 {
			b.WriteString(m.emptyRun(width, hourRow, nowRow))
		} else {
			blk := col.Blocks[o]
			top, _ := f.rowSpan(blk)
			b.WriteString(m.blockStyle(blk).Render(fit(m.blockLine(blk, r-top), width)))
		}
		x = end
	}
	return b.String()
}

func (m Model) emptyRun(width int, hourRow, nowRow bool) string {
	switch {
	case nowRow:
		return m.styles.StatusStyle.Render(strings.Repeat("─", width))
	case hourRow:
		return m.styles.HourLineStyle.Render(strings.Repeat("┈", width))
	default:
		return m.styles.EmptyCellStyle.Render(strings.Repeat(" ", width))
	}
}

// blockLine returns the text of the given line of a block.
func (m Model) blockLine(blk layout.Block, line int) string {
	e := blk.Event
	switch line {
	case 0:
		title := markFor(e) + e.Title
		if blk.ClipTop {
			title = "↑" + title
		}
		return title
	case 1:
		return e.Start + "-" + e.End
	case 2:
		return e.Description
	default:
		return ""
	}
}

func (m Model) blockStyle(blk layout.Block) lipgloss.Style {
	e := blk.Event
	switch {
	case m.session != nil && m.session.Original().ID == e.ID:
		return m.styles.DragStyle
	case m.mode == ModePreview && m.preview != nil && m.isChanged(e.ID):
		return m.styles.ChangedStyle
	case e.ID == m.selected:
		return m.styles.SelectedStyle
	}
	return m.styles.blockStyle(e.Urgency, m.isPast(e), blk.PositionIndex%2 == 1)
}

func (m Model) isChanged(id int64) bool {
	for _, e := range m.preview.Changed {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (m Model) isPast(e *event.Event) bool {
	end, err := e.EndTime(time.Local)
	if err != nil {
		return false
	}
	return end.Before(m.now())
}

// renderSidePanel returns f.rows lines: the selection details, then the
// blocks too small to show their details inline.
func (m Model) renderSidePanel(g layout.Grid, f frame) []string {
	if f.sideW == 0 {
		return nil
	}
	inner := f.sideW - 2
	s := m.styles
	var lines []string
	add := func(style lipgloss.Style, text string) {
		lines = append(lines, style.Render(fit(text, inner)))
	}

	switch {
	case m.mode == ModePreview && m.preview != nil:
		add(s.SidePanelTitleStyle, "Proposed changes")
		for _, e := range m.preview.Changed {
			add(s.SidePanelStyle, e.Title)
			add(s.SidePanelMutedStyle, "  "+m.changeLine(e))
		}
	default:
		add(s.SidePanelTitleStyle, "Selected")
		if e, ok := m.selectedEvent(); ok {
			for _, l := range m.detailLines(e, inner) {
				add(s.SidePanelStyle, l)
			}
		} else {
			add(s.SidePanelMutedStyle, "Nothing selected")
		}
		if len(g.SidePanel) > 0 {
			add(s.SidePanelStyle, "")
			add(s.SidePanelTitleStyle, fmt.Sprintf("Small events (%d)", len(g.SidePanel)))
			for _, e := range g.SidePanel {
				add(s.SidePanelStyle, e.Start+" "+e.Title)
			}
		}
	}

	out := make([]string, f.rows)
	blank := s.SidePanelStyle.Render(strings.Repeat(" ", inner))
	for i := range out {
		out[i] = blank
		if i < len(lines) {
			out[i] = lines[i]
		}
	}
	return out
}

func (m Model) changeLine(e *event.Event) string {
	orig, ok := m.sched.Get(e.ID)
	if !ok {
		return e.Start + "-" + e.End
	}
	from := orig.Start + "-" + orig.End
	to := e.Start + "-" + e.End
	if orig.StartDate != e.StartDate {
		from = orig.StartDate + " " + from
		to = e.StartDate + " " + to
	}
	return from + " → " + to
}

func (m Model) detailLines(e *event.Event, width int) []string {
	when := e.StartDate + "  " + e.Start + " - " + e.End
	if e.IsMultiDay() {
		when = e.StartDate + " " + e.Start + " →"
	}
	lines := []string{e.Title, when}
	if e.IsMultiDay() {
		lines = append(lines, "  "+e.EndDate+" "+e.End)
	}
	lines = append(lines, "Urgency: "+string(e.Urgency), "Type: "+string(e.Type))
	if e.Locked {
		lines = append(lines, "Locked")
	}
	if e.Description != "" {
		wrapped := lipgloss.NewStyle().Width(width).Render(e.Description)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}

func (m Model) renderStatus() string {
	if m.mode == ModePrompt {
		return m.prompt.View()
	}
	if m.statusMsg == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.ErrorStyle.Render(m.statusMsg)
	}
	return m.styles.StatusStyle.Render(m.statusMsg)
}

func (m Model) renderHelp() string {
	if m.help.ShowAll {
		return m.styles.HelpStyle.Render(ansi.Truncate(m.help.FullHelpView(m.keys.FullHelp()), m.width, ""))
	}
	return m.styles.HelpStyle.Render(m.help.View(m.keys))
}

func (m Model) renderSummaryModal() string {
	s := m.styles
	w := min(64, max(24, m.width-8))
	body := lipgloss.NewStyle().Width(w-6).Inherit(s.ModalBodyStyle).Render(m.summary)
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.ModalTitleStyle.Render("Summary"),
		"",
		body,
		"",
		s.ModalHintStyle.Render("y copy  esc close"),
	)
	return s.ModalStyle.Width(w).Render(content)
}

// fill pads every line to the terminal width and the output to its height.
func (m Model) fill(lines []string) string {
	if len(lines) > m.height {
		lines = lines[:m.height]
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	pad := m.styles.EmptyCellStyle
	for i, l := range lines {
		w := lipgloss.Width(l)
		switch {
		case w > m.width:
			lines[i] = ansi.Truncate(l, m.width, "")
		case w < m.width:
			lines[i] = l + pad.Render(strings.Repeat(" ", m.width-w))
		}
	}
	return strings.Join(lines, "\n")
}

// fit truncates or pads text to exactly width cells.
func fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	text = ansi.Truncate(text, width, ellipsis)
	if w := ansi.StringWidth(text); w < width {
		text += strings.Repeat(" ", width-w)
	}
	return text
}
