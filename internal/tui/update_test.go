package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/schedule"
	"github.com/javiermolinar/eventide/internal/tui/commands"
)

// At 80x64 the grid starts on line 2 and every row is ten minutes of the
// 8 AM to 6 PM axis, so a 9:00 to 10:00 event covers lines 8 to 13.
const cellX = timeColWidth + 5

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

// gesture presses at fromY, moves to toY and releases, running the save.
func gesture(t *testing.T, m Model, fromY, toY int) Model {
	t.Helper()
	m = update(t, m, mouse(tea.MouseActionPress, cellX, fromY))
	m = update(t, m, mouse(tea.MouseActionMotion, cellX, toY))
	next, cmd := m.Update(mouse(tea.MouseActionRelease, cellX, toY))
	return runCmd(t, next.(Model), cmd)
}

func TestMouseDrag(t *testing.T) {
	tests := []struct {
		name      string
		fromY     int
		toY       int
		wantStart string
		wantEnd   string
	}{
		{name: "move", fromY: 10, toY: 16, wantStart: "10:00 AM", wantEnd: "11:00 AM"},
		{name: "move up", fromY: 10, toY: 7, wantStart: "8:30 AM", wantEnd: "9:30 AM"},
		{name: "resize bottom", fromY: 13, toY: 16, wantStart: "9:00 AM", wantEnd: "10:30 AM"},
		{name: "resize top", fromY: 8, toY: 5, wantStart: "8:30 AM", wantEnd: "10:00 AM"},
		{name: "clamped to window", fromY: 10, toY: 0, wantStart: "8:00 AM", wantEnd: "9:00 AM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo(t)
			e := timedEvent(0, "Standup", "9:00 AM", "10:00 AM")
			m := newTestModel(t, repo, e)

			m = gesture(t, m, tt.fromY, tt.toY)

			if m.mode != ModeNormal || m.session != nil {
				t.Errorf("gesture should end in normal mode without a session")
			}
			if m.selected != e.ID {
				t.Errorf("selected = %d, want %d", m.selected, e.ID)
			}
			s := stored(t, repo, e.ID)
			if s.Start != tt.wantStart || s.End != tt.wantEnd {
				t.Errorf("stored = %s - %s, want %s - %s", s.Start, s.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestMouseDrag_PreviewDuringGesture(t *testing.T) {
	repo := newTestRepo(t)
	e := timedEvent(0, "Standup", "9:00 AM", "10:00 AM")
	m := newTestModel(t, repo, e)

	m = update(t, m, mouse(tea.MouseActionPress, cellX, 10))
	if m.mode != ModeDrag {
		t.Fatalf("mode = %v, want ModeDrag", m.mode)
	}
	m = update(t, m, mouse(tea.MouseActionMotion, cellX, 16))

	b, ok := m.grid().Find(e.ID)
	if !ok {
		t.Fatal("dragged event missing from the grid")
	}
	if b.StartMin != 600 {
		t.Errorf("provisional start = %d, want 600", b.StartMin)
	}
	if s := stored(t, repo, e.ID); s.Start != "9:00 AM" {
		t.Errorf("repository changed before release: %s", s.Start)
	}
}

func TestMouseDrag_EscCancels(t *testing.T) {
	repo := newTestRepo(t)
	e := timedEvent(0, "Standup", "9:00 AM", "10:00 AM")
	m := newTestModel(t, repo, e)

	m = update(t, m, mouse(tea.MouseActionPress, cellX, 10))
	m = update(t, m, mouse(tea.MouseActionMotion, cellX, 16))
	m = press(t, m, "esc")

	if m.mode != ModeNormal || m.session != nil {
		t.Fatal("esc should end the gesture")
	}
	if m.statusMsg != "Drag cancelled" {
		t.Errorf("status = %q", m.statusMsg)
	}
	if got, _ := m.sched.Get(e.ID); got.Start != "9:00 AM" || got.End != "10:00 AM" {
		t.Errorf("cancelled drag changed the event to %s - %s", got.Start, got.End)
	}

	m = gesture(t, m, 10, 16)
	if s := stored(t, repo, e.ID); s.Start != "10:00 AM" {
		t.Errorf("a new gesture after cancel should work, start = %s", s.Start)
	}
}

func TestMouseDrag_Unchanged(t *testing.T) {
	repo := newTestRepo(t)
	e := timedEvent(0, "Standup", "9:00 AM", "10:00 AM")
	m := newTestModel(t, repo, e)

	m = update(t, m, mouse(tea.MouseActionPress, cellX, 10))
	next, cmd := m.Update(mouse(tea.MouseActionRelease, cellX, 10))
	if cmd != nil {
		t.Error("an unchanged gesture should not save")
	}
	if next.(Model).sched.CanUndo() {
		t.Error("an unchanged gesture should not be recorded")
	}
}

func TestMouseDrag_Locked(t *testing.T) {
	repo := newTestRepo(t)
	e := timedEvent(0, "Board meeting", "9:00 AM", "10:00 AM")
	e.Locked = true
	m := newTestModel(t, repo, e)

	m = update(t, m, mouse(tea.MouseActionPress, cellX, 10))
	if m.mode != ModeNormal || m.session != nil {
		t.Error("locked events should not start a gesture")
	}
	if m.statusMsg != "Cannot move a locked event." {
		t.Errorf("status = %q", m.statusMsg)
	}
	if m.selected != e.ID {
		t.Errorf("locked events can still be selected, got %d", m.selected)
	}
}

func TestMousePressEmptyCell(t *testing.T) {
	repo := newTestRepo(t)
	e := timedEvent(0, "Standup", "9:00 AM", "10:00 AM")
	m := newTestModel(t, repo, e)
	m.selected = e.ID

	m = update(t, m, mouse(tea.MouseActionPress, cellX, 40))
	if m.selected != 0 {
		t.Errorf("pressing an empty cell should clear the selection")
	}
	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want ModeNormal", m.mode)
	}
}

func TestUpdateMessages(t *testing.T) {
	m := newTestModel(t, newTestRepo(t))

	t.Run("save failure is an error status", func(t *testing.T) {
		got := update(t, m, commands.SaveFailedMsg{Label: "move", Err: errors.New("disk full")})
		if !got.statusErr {
			t.Error("expected an error status")
		}
		if got.statusMsg != "Error: saving move: disk full" {
			t.Errorf("status = %q", got.statusMsg)
		}
	})

	t.Run("empty preview", func(t *testing.T) {
		got := update(t, m, commands.PreviewMsg{Preview: &schedule.Preview{}})
		if got.mode != ModeNormal {
			t.Errorf("mode = %v, want ModeNormal", got.mode)
		}
		if got.statusMsg != "No changes proposed" {
			t.Errorf("status = %q", got.statusMsg)
		}
	})

	t.Run("preview verdict", func(t *testing.T) {
		got := update(t, m, commands.PreviewMsg{Preview: &schedule.Preview{Message: "Already optimal"}})
		if got.statusMsg != "Already optimal" {
			t.Errorf("status = %q", got.statusMsg)
		}
	})

	t.Run("summary opens and closes", func(t *testing.T) {
		got := update(t, m, commands.SummaryMsg{Text: "A quiet Monday"})
		if got.mode != ModeSummary {
			t.Fatalf("mode = %v, want ModeSummary", got.mode)
		}
		got = press(t, got, "esc")
		if got.mode != ModeNormal || got.summary != "" {
			t.Errorf("esc should close the summary")
		}
	})

	t.Run("status clears once expired", func(t *testing.T) {
		got := update(t, m, commands.StatusMsgCmd{Msg: "Copied event"})
		if got.statusMsg != "Copied event" {
			t.Fatalf("status = %q", got.statusMsg)
		}
		got.statusTime = testClock.Add(-1)
		got = update(t, got, commands.ClearStatusMsg{})
		if got.statusMsg != "" {
			t.Errorf("status not cleared: %q", got.statusMsg)
		}
	})
}

func TestPreviewAcceptAndDiscard(t *testing.T) {
	newPreview := func(t *testing.T) (Model, *event.Event, *event.Event) {
		repo := newTestRepo(t)
		e := timedEvent(0, "Standup", "9:00 AM", "10:00 AM")
		m := newTestModel(t, repo, e)
		moved := e.Clone()
		moved.Start, moved.End = "11:00 AM", "12:00 PM"
		p := &schedule.Preview{Changed: []*event.Event{moved}, Proposed: m.sched.LayoutWith(moved)}
		return update(t, m, commands.PreviewMsg{Preview: p}), e, moved
	}

	t.Run("accept", func(t *testing.T) {
		m, e, _ := newPreview(t)
		if m.mode != ModePreview {
			t.Fatalf("mode = %v, want ModePreview", m.mode)
		}
		m = press(t, m, "enter")
		if m.mode != ModeNormal {
			t.Errorf("mode = %v, want ModeNormal", m.mode)
		}
		if got, _ := m.sched.Get(e.ID); got.Start != "11:00 AM" {
			t.Errorf("accepted start = %s, want 11:00 AM", got.Start)
		}
	})

	t.Run("discard", func(t *testing.T) {
		m, e, _ := newPreview(t)
		m = press(t, m, "esc")
		if m.statusMsg != "Optimization discarded" {
			t.Errorf("status = %q", m.statusMsg)
		}
		if got, _ := m.sched.Get(e.ID); got.Start != "9:00 AM" {
			t.Errorf("discarded preview changed the event to %s", got.Start)
		}
	})
}
