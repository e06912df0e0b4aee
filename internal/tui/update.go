package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/eventide/internal/drag"
	"github.com/javiermolinar/eventide/internal/layout"
	"github.com/javiermolinar/eventide/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(10, msg.Width-len(m.prompt.Prompt)-2)
		m.resize()
		return m, nil

	case commands.LoadedMsg:
		m.loading = false
		m.resize()
		if _, ok := m.selectedEvent(); !ok {
			m.selected = 0
		}
		return m, nil

	case commands.CreatedMsg:
		m.selected = msg.Event.ID
		for i, d := range m.dates {
			if d == msg.Event.StartDate {
				m.column = i
			}
		}
		return m.withStatus("Added " + msg.Event.Title), m.clearStatusLater()

	case commands.SavedMsg:
		m.log.Debugw("Saved", "action", msg.Label)
		return m, nil

	case commands.SaveFailedMsg:
		return m.withError(fmt.Errorf("saving %s: %w", msg.Label, msg.Err)), m.clearStatusLater()

	case commands.HistoryMsg:
		verb := "Undid"
		if msg.Redo {
			verb = "Redid"
		}
		if _, ok := m.selectedEvent(); !ok {
			m.selected = 0
		}
		return m.withStatus(verb + " " + msg.Action.Describe()), m.clearStatusLater()

	case commands.PreviewMsg:
		p := msg.Preview
		if p.Message != "" {
			return m.withStatus(p.Message), m.clearStatusLater()
		}
		if !p.HasChanges() {
			return m.withStatus("No changes proposed"), m.clearStatusLater()
		}
		m.mode = ModePreview
		m.preview = p
		m.statusMsg = ""
		return m, nil

	case commands.SummaryMsg:
		m.mode = ModeSummary
		m.summary = msg.Text
		m.statusMsg = ""
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		return m.withError(msg.Err), m.clearStatusLater()

	case commands.StatusMsgCmd:
		return m.withStatus(msg.Msg), m.clearStatusLater()

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) clearStatusLater() tea.Cmd {
	wait := max(0, m.statusTime.Sub(m.now()))
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// handleMouseMsg turns pointer events into drag sessions: press on a
// block begins one, motion updates it and release commits it.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal && m.mode != ModeDrag {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.beginDrag(msg.X, msg.Y)

	case tea.MouseActionMotion:
		if m.session == nil {
			return m, nil
		}
		m.session.Update(float64(msg.Y - m.frame(m.sched.Layout()).gridTop))
		return m, nil

	case tea.MouseActionRelease:
		if m.session == nil {
			return m, nil
		}
		return m.commitDrag()
	}
	return m, nil
}

func (m Model) beginDrag(x, y int) (tea.Model, tea.Cmd) {
	g := m.sched.Layout()
	f := m.frame(g)

	if id, ok := m.bandAt(g, f, x, y); ok {
		m.selected = id
		return m, nil
	}

	h := f.locate(g, x, y)
	if !h.inGrid {
		return m, nil
	}
	m.column = h.column
	if !h.onItem {
		m.selected = 0
		return m, nil
	}
	m.selected = h.block.Event.ID

	top, height := f.rowSpan(h.block)
	handle := drag.HandleAt(float64(h.row-top), float64(height), 1, h.block.Event.IsReminder())
	m.sched.SetDragScale(float64(f.rows))
	sess, err := m.sched.BeginDrag(h.block.Event.ID, handle, float64(h.row))
	if err != nil {
		return m.rejected(err), m.clearStatusLater()
	}
	m.session = sess
	m.dragOrigin = float64(h.row)
	m.mode = ModeDrag
	return m, nil
}

func (m Model) commitDrag() (tea.Model, tea.Cmd) {
	sess := m.session
	m.session = nil
	m.mode = ModeNormal

	save, err := m.sched.CommitDrag(sess)
	if errors.Is(err, drag.ErrInvalidResult) {
		return m.withStatus("Invalid time range, change discarded"), m.clearStatusLater()
	}
	if err != nil {
		return m.rejected(err), m.clearStatusLater()
	}
	if save == nil {
		return m, nil
	}
	return m, commands.Save(save, sess.Original().Title)
}

// cancelDrag abandons the gesture. Committing at the press position
// leaves the event unchanged and releases it for the next gesture.
func (m *Model) cancelDrag() {
	if m.session == nil {
		return
	}
	m.session.Update(m.dragOrigin)
	_, _ = m.sched.CommitDrag(m.session)
	m.session = nil
	m.mode = ModeNormal
}

// bandAt returns the multi-day event whose band is under the pointer.
func (m Model) bandAt(g layout.Grid, f frame, x, y int) (int64, bool) {
	i := y - f.bandsTop
	if i < 0 || i >= f.bandRows || i >= len(g.Bands) {
		return 0, false
	}
	b := g.Bands[i]
	left, width := f.bandSpan(b)
	if x < left || x >= left+width {
		return 0, false
	}
	return b.Event.ID, true
}
