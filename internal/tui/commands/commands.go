// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/history"
	"github.com/javiermolinar/eventide/internal/schedule"
)

// saveTimeout bounds one background save.
const saveTimeout = 30 * time.Second

// LoadedMsg is sent when the events of the displayed dates are loaded.
type LoadedMsg struct {
	Dates []string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// SavedMsg is sent when a background save succeeds.
type SavedMsg struct {
	Label string
}

// SaveFailedMsg is sent when a background save fails. The optimistic local
// change is kept.
type SaveFailedMsg struct {
	Label string
	Err   error
}

// CreatedMsg is sent when a new event is stored.
type CreatedMsg struct {
	Event *event.Event
}

// HistoryMsg is sent after an undo or redo.
type HistoryMsg struct {
	Action history.Action
	Redo   bool
}

// PreviewMsg carries an optimization preview.
type PreviewMsg struct {
	Preview *schedule.Preview
}

// SummaryMsg carries a schedule summary.
type SummaryMsg struct {
	Text string
}

// Summarizer turns a schedule into a one-line summary.
type Summarizer interface {
	Summarize(ctx context.Context, events []*event.Event) (string, error)
}

// Load fetches the events of dates into s.
func Load(s *schedule.Schedule, dates []string) tea.Cmd {
	return func() tea.Msg {
		if err := s.Load(context.Background(), dates); err != nil {
			return ErrMsg{Err: err}
		}
		return LoadedMsg{Dates: dates}
	}
}

// Save runs an optimistic mutation's save off the interaction path.
// A nil save yields no command.
func Save(save schedule.Save, label string) tea.Cmd {
	if save == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := save(ctx); err != nil {
			return SaveFailedMsg{Label: label, Err: err}
		}
		return SavedMsg{Label: label}
	}
}

// Create stores e through s.
func Create(s *schedule.Schedule, e *event.Event) tea.Cmd {
	return func() tea.Msg {
		created, err := s.Create(context.Background(), e)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating event: %w", err)}
		}
		return CreatedMsg{Event: created}
	}
}

// Undo reverts the latest action of s.
func Undo(s *schedule.Schedule) tea.Cmd {
	return func() tea.Msg {
		a, err := s.Undo(context.Background())
		if errors.Is(err, history.ErrNothingToUndo) {
			return StatusMsgCmd{Msg: "Nothing to undo"}
		}
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("undo: %w", err)}
		}
		return HistoryMsg{Action: a}
	}
}

// Redo replays the latest undone action of s.
func Redo(s *schedule.Schedule) tea.Cmd {
	return func() tea.Msg {
		a, err := s.Redo(context.Background())
		if errors.Is(err, history.ErrNothingToRedo) {
			return StatusMsgCmd{Msg: "Nothing to redo"}
		}
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("redo: %w", err)}
		}
		return HistoryMsg{Action: a, Redo: true}
	}
}

// Optimize asks opt for a better version of the loaded schedule.
func Optimize(s *schedule.Schedule, opt schedule.Optimizer, mask event.Mask) tea.Cmd {
	return func() tea.Msg {
		if opt == nil {
			return ErrMsg{Err: errors.New("no optimizer configured")}
		}
		p, err := s.Optimize(context.Background(), opt, mask)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return PreviewMsg{Preview: p}
	}
}

// Summarize asks sum for a summary of events.
func Summarize(sum Summarizer, events []*event.Event) tea.Cmd {
	return func() tea.Msg {
		if sum == nil {
			return ErrMsg{Err: errors.New("no summarizer configured")}
		}
		text, err := sum.Summarize(context.Background(), events)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("summarizing: %w", err)}
		}
		return SummaryMsg{Text: text}
	}
}

// Copy writes text to the system clipboard.
func Copy(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying %s: %w", what, err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what}
	}
}
