package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/drag"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/layout"
	"github.com/javiermolinar/eventide/internal/tui/commands"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Today    key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Grow     key.Binding
	Shrink   key.Binding
	Add      key.Binding
	Lock     key.Binding
	Delete   key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Copy     key.Binding
	View     key.Binding
	Mark     key.Binding
	Optimize key.Binding
	Summary  key.Binding
	Accept   key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev event")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next event")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next day")),
		Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next dates")),
		Prev:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev dates")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move earlier")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move later")),
		Grow:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "extend")),
		Shrink:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shorten")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Lock:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lock")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:     key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "redo")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		View:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view mode")),
		Mark:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark date")),
		Optimize: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "optimize")),
		Summary:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "summarize")),
		Accept:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Next, k.Add, k.Lock, k.Delete, k.Undo, k.Redo, k.View, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Next, k.Prev, k.Today, k.View, k.Mark},
		{k.MoveUp, k.MoveDown, k.Grow, k.Shrink},
		{k.Add, k.Lock, k.Delete, k.Copy},
		{k.Undo, k.Redo, k.Optimize, k.Summary},
		{k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModePreview:
		return m.handlePreviewKeys(msg)
	case ModeSummary:
		return m.handleSummaryKeys(msg)
	case ModeDrag:
		if key.Matches(msg, m.keys.Cancel) {
			m.cancelDrag()
			return m.withStatus("Drag cancelled"), nil
		}
		return m, nil
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		m.selected = m.stepSelection(-1)
	case key.Matches(msg, k.Down):
		m.selected = m.stepSelection(1)
	case key.Matches(msg, k.Left):
		if m.column > 0 {
			m.column--
			m.selected = m.nearestInColumn()
		}
	case key.Matches(msg, k.Right):
		if m.column < len(m.dates)-1 {
			m.column++
			m.selected = m.nearestInColumn()
		}

	case key.Matches(msg, k.Next):
		return m.shiftDates(1)
	case key.Matches(msg, k.Prev):
		return m.shiftDates(-1)
	case key.Matches(msg, k.Today):
		m.anchor = dateutil.Format(m.now())
		m.column = 0
		return m.reload()
	case key.Matches(msg, k.View):
		m.viewMode = m.viewMode.Next()
		m = m.withStatus("View: " + string(m.viewMode))
		return m.reload()
	case key.Matches(msg, k.Mark):
		return m.toggleMark()

	case key.Matches(msg, k.MoveUp):
		return m.nudge(drag.HandleMiddle, -1)
	case key.Matches(msg, k.MoveDown):
		return m.nudge(drag.HandleMiddle, 1)
	case key.Matches(msg, k.Grow):
		return m.nudge(drag.HandleBottom, 1)
	case key.Matches(msg, k.Shrink):
		return m.nudge(drag.HandleBottom, -1)

	case key.Matches(msg, k.Add):
		m.mode = ModePrompt
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, textinput.Blink
	case key.Matches(msg, k.Lock):
		return m.lockSelected()
	case key.Matches(msg, k.Delete):
		return m.deleteSelected()
	case key.Matches(msg, k.Undo):
		return m, commands.Undo(m.sched)
	case key.Matches(msg, k.Redo):
		return m, commands.Redo(m.sched)
	case key.Matches(msg, k.Copy):
		e, ok := m.selectedEvent()
		if !ok {
			return m.withStatus("Nothing selected"), nil
		}
		return m, commands.Copy(describeEvent(e), "event")

	case key.Matches(msg, k.Optimize):
		m = m.withStatus("Optimizing...")
		return m, commands.Optimize(m.sched, m.optimizer, m.mask)
	case key.Matches(msg, k.Summary):
		m = m.withStatus("Summarizing...")
		return m, commands.Summarize(m.summarizer, m.sched.Events())

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Cancel):
		m.selected = 0
	}
	return m, nil
}

// handlePromptKeys handles the new event title prompt.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(m.prompt.Value())
		m.mode = ModeNormal
		m.prompt.Blur()
		return m.addEvent(title)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handlePreviewKeys accepts or discards an optimization preview.
func (m Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		p := m.preview
		m.mode = ModeNormal
		m.preview = nil
		save, err := m.sched.AcceptPreview(p)
		if err != nil {
			return m.withError(err), nil
		}
		if save == nil {
			return m.withStatus("Nothing to apply"), nil
		}
		m = m.withStatus(fmt.Sprintf("Applied %d changes", len(p.Changed)))
		return m, commands.Save(save, "optimization")
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		m.preview = nil
		return m.withStatus("Optimization discarded"), nil
	}
	return m, nil
}

// handleSummaryKeys closes or copies the summary.
func (m Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Copy):
		return m, commands.Copy(m.summary, "summary")
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Accept), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		m.summary = ""
	}
	return m, nil
}

// shiftDates moves the displayed dates by one page.
func (m Model) shiftDates(dir int) (tea.Model, tea.Cmd) {
	step := len(m.dates)
	if m.viewMode == dateutil.ViewCustom {
		step = 7
		shifted := make([]string, 0, len(m.custom))
		for _, d := range m.custom {
			if s, err := dateutil.AddDays(d, dir*step); err == nil {
				shifted = append(shifted, s)
			}
		}
		m.custom = shifted
	}
	anchor, err := dateutil.AddDays(m.anchor, dir*step)
	if err != nil {
		return m.withError(err), nil
	}
	m.anchor = anchor
	m.selected = 0
	return m.reload()
}

// toggleMark adds or removes the focused date from the custom date list.
func (m Model) toggleMark() (tea.Model, tea.Cmd) {
	if m.column >= len(m.dates) {
		return m, nil
	}
	date := m.dates[m.column]
	if i := slices.Index(m.custom, date); i >= 0 {
		m.custom = slices.Delete(slices.Clone(m.custom), i, i+1)
		m = m.withStatus("Unmarked " + date)
	} else {
		m.custom = append(slices.Clone(m.custom), date)
		m = m.withStatus("Marked " + date)
	}
	if m.viewMode == dateutil.ViewCustom {
		return m.reload()
	}
	return m, nil
}

// addEvent stores a new event in the next free slot of the focused date.
func (m Model) addEvent(title string) (tea.Model, tea.Cmd) {
	if len(m.dates) == 0 {
		return m, nil
	}
	date := m.dates[m.column]
	slot, ok := m.sched.NextFreeSlot(date, newEventMinutes, m.now())
	if !ok {
		return m.withStatus("No free slot in the next week"), nil
	}
	e := &event.Event{
		Title:     title,
		StartDate: slot.Date,
		EndDate:   slot.Date,
		Start:     event.FormatMinutes(slot.Start),
		End:       event.FormatMinutes(slot.End),
	}
	e.ApplyDefaults()
	m = m.withStatus(fmt.Sprintf("Adding %q on %s at %s", e.Title, slot.Date, e.Start))
	return m, commands.Create(m.sched, e)
}

func (m Model) lockSelected() (tea.Model, tea.Cmd) {
	e, ok := m.selectedEvent()
	if !ok {
		return m.withStatus("Nothing selected"), nil
	}
	save, err := m.sched.ToggleLock(e.ID)
	if err != nil {
		return m.rejected(err), nil
	}
	m = m.withStatus("Locked " + e.Title)
	return m, commands.Save(save, "lock")
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	e, ok := m.selectedEvent()
	if !ok {
		return m.withStatus("Nothing selected"), nil
	}
	save, err := m.sched.Delete(e.ID)
	if err != nil {
		return m.rejected(err), nil
	}
	m.selected = 0
	m = m.withStatus("Deleted " + e.Title)
	return m, commands.Save(save, "delete")
}

// nudge moves or resizes the selected event by one grid interval, through
// the same drag session a mouse gesture uses.
func (m Model) nudge(h drag.Handle, dir int) (tea.Model, tea.Cmd) {
	e, ok := m.selectedEvent()
	if !ok {
		return m.withStatus("Nothing selected"), nil
	}
	cfg := m.sched.Config()
	f := m.frame(m.sched.Layout())
	m.sched.SetDragScale(float64(f.rows))

	sess, err := m.sched.BeginDrag(e.ID, h, 0)
	if err != nil {
		return m.rejected(err), nil
	}
	sess.Update(float64(dir*cfg.Window.Interval) / f.minutesPerRow(m.axis()))
	save, err := m.sched.CommitDrag(sess)
	if err != nil {
		return m.rejected(err), nil
	}
	if save == nil {
		return m, nil
	}
	return m, commands.Save(save, sess.Mode().String())
}

// rejected reports a refused mutation. Locked rejections are expected and
// not logged as failures.
func (m Model) rejected(err error) Model {
	if errors.Is(err, event.ErrLocked) {
		return m.withStatus(lockedMessage(err))
	}
	return m.withError(err)
}

func lockedMessage(err error) string {
	msg := err.Error()
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func (m Model) axis() layout.Axis {
	cfg := m.sched.Config()
	if cfg.Axis.Minutes() > 0 {
		return cfg.Axis
	}
	return layout.AxisFor(cfg.Window)
}

// columnEvents returns the single-day events of the focused column in
// start order.
func (m Model) columnEvents() []layout.Block {
	g := m.sched.Layout()
	if m.column >= len(g.Columns) {
		return nil
	}
	blocks := slices.Clone(g.Columns[m.column].Blocks)
	slices.SortStableFunc(blocks, func(a, b layout.Block) int {
		if a.StartMin != b.StartMin {
			return a.StartMin - b.StartMin
		}
		return a.PositionIndex - b.PositionIndex
	})
	return blocks
}

// stepSelection selects the previous or next event of the focused column.
func (m Model) stepSelection(dir int) int64 {
	blocks := m.columnEvents()
	if len(blocks) == 0 {
		return 0
	}
	i := slices.IndexFunc(blocks, func(b layout.Block) bool { return b.Event.ID == m.selected })
	switch {
	case i < 0 && dir > 0:
		i = 0
	case i < 0:
		i = len(blocks) - 1
	default:
		i = (i + dir + len(blocks)) % len(blocks)
	}
	return blocks[i].Event.ID
}

// nearestInColumn selects the event of the focused column closest in time
// to the current selection.
func (m Model) nearestInColumn() int64 {
	blocks := m.columnEvents()
	if len(blocks) == 0 {
		return 0
	}
	ref := -1
	if e, ok := m.selectedEvent(); ok {
		if start, _, err := e.Minutes(); err == nil {
			ref = start
		}
	}
	if ref < 0 {
		return blocks[0].Event.ID
	}
	best := blocks[0]
	for _, b := range blocks[1:] {
		if abs(b.StartMin-ref) < abs(best.StartMin-ref) {
			best = b
		}
	}
	return best.Event.ID
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// describeEvent renders an event as a single line for the clipboard.
func describeEvent(e *event.Event) string {
	when := e.StartDate + " " + e.Start + " - " + e.End
	if e.IsMultiDay() {
		when = e.StartDate + " " + e.Start + " - " + e.EndDate + " " + e.End
	}
	line := fmt.Sprintf("%s (%s, %s)", e.Title, when, e.Urgency)
	if e.Description != "" {
		line += ": " + e.Description
	}
	return line
}
