// Package history keeps the bounded undo and redo logs of event edits.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/javiermolinar/eventide/internal/event"
)

// DefaultMaxEntries bounds each log; the oldest entry is dropped first.
const DefaultMaxEntries = 10

// History errors.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrInvalidAction = errors.New("invalid history action")
)

// Kind tags an action.
type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Action is one recorded edit with the payload needed to invert it.
type Action struct {
	Kind  Kind
	Event *event.Event // created or deleted event
	Old   *event.Event // update: before
	New   *event.Event // update: after
}

// Created records the creation of e, which must carry its ID.
func Created(e *event.Event) Action {
	return Action{Kind: KindCreate, Event: e.Clone()}
}

// Updated records an update from old to updated.
func Updated(old, updated *event.Event) Action {
	return Action{Kind: KindUpdate, Old: old.Clone(), New: updated.Clone()}
}

// Deleted records the deletion of e.
func Deleted(e *event.Event) Action {
	return Action{Kind: KindDelete, Event: e.Clone()}
}

// ID returns the event the action concerns.
func (a Action) ID() int64 {
	if a.Kind == KindUpdate && a.New != nil {
		return a.New.ID
	}
	if a.Event != nil {
		return a.Event.ID
	}
	return 0
}

// Describe returns a short label such as "update: Standup".
func (a Action) Describe() string {
	e := a.Event
	if a.Kind == KindUpdate {
		e = a.New
	}
	if e == nil {
		return string(a.Kind)
	}
	return fmt.Sprintf("%s: %s", a.Kind, e.Title)
}

func (a Action) valid() bool {
	switch a.Kind {
	case KindCreate, KindDelete:
		return a.Event != nil
	case KindUpdate:
		return a.Old != nil && a.New != nil
	default:
		return false
	}
}

// Change is the effect a replay had on the store. The caller mirrors it
// in its in-memory event set.
type Change struct {
	Removed  int64        // ID removed from the store, 0 if none
	Upsert   *event.Event // event created or updated in the store
	Replaced int64        // former ID of a re-created event, 0 if none
}

// Log is a pair of bounded undo and redo stacks.
type Log struct {
	undo []Action
	redo []Action
	max  int
	gen  uint64 // bumped whenever recorded edits invalidate the redo stack
}

// New creates a Log bounded to maxEntries per stack.
// A non-positive bound uses DefaultMaxEntries.
func New(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{max: maxEntries}
}

// Record pushes a new action and clears the redo stack.
func (l *Log) Record(a Action) error {
	if !a.valid() {
		return ErrInvalidAction
	}
	l.undo = push(l.undo, a, l.max)
	l.redo = nil
	l.gen++
	return nil
}

// CanUndo returns true if an action can be undone.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo returns true if an action can be redone.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (l *Log) Len() (undo, redo int) { return len(l.undo), len(l.redo) }

// Peek returns the action the next Undo would replay.
func (l *Log) Peek() (Action, bool) {
	if len(l.undo) == 0 {
		return Action{}, false
	}
	return l.undo[len(l.undo)-1], true
}

// Direction selects the stack a replay draws from.
type Direction int

const (
	Backward Direction = iota // undo
	Forward                   // redo
)

func (d Direction) verb() string {
	if d == Forward {
		return "redoing"
	}
	return "undoing"
}

// Replay is an action taken off its stack and awaiting its round trip to
// the store. Begin, Run and Finish split a replay so that the store call
// can happen without holding whatever lock guards the Log.
type Replay struct {
	Action Action
	dir    Direction
	gen    uint64
}

// Begin takes the latest action off the undo (Backward) or redo (Forward)
// stack. Every Begin must be followed by Finish.
func (l *Log) Begin(dir Direction) (Replay, error) {
	stack := &l.undo
	if dir == Forward {
		stack = &l.redo
	}
	if len(*stack) == 0 {
		if dir == Forward {
			return Replay{}, ErrNothingToRedo
		}
		return Replay{}, ErrNothingToUndo
	}
	a := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]
	return Replay{Action: a, dir: dir, gen: l.gen}, nil
}

// Run replays r against repo. It reads no Log state.
func (r Replay) Run(ctx context.Context, repo event.Repository) (Change, error) {
	a := r.Action
	var (
		ch  Change
		err error
	)
	switch {
	case a.Kind == KindUpdate && r.dir == Backward:
		ch, err = update(ctx, repo, a.Old)
	case a.Kind == KindUpdate:
		ch, err = update(ctx, repo, a.New)
	case (a.Kind == KindCreate) == (r.dir == Backward):
		ch, err = remove(ctx, repo, a.Event.ID)
	default:
		ch, err = recreate(ctx, repo, a.Event)
	}
	if err != nil {
		return Change{}, fmt.Errorf("%s %s: %w", r.dir.verb(), a.Kind, err)
	}
	return ch, nil
}

// Finish completes r with the outcome of Run. A successful replay moves
// the action to the opposite stack, and a re-created event's new ID is
// written into every logged action. A failed replay puts the action back.
// Either way, an action recorded since Begin wins: the undone action is
// dropped rather than offered for redo.
func (l *Log) Finish(r Replay, ch Change, err error) Action {
	a := r.Action
	stale := l.gen != r.gen
	if err != nil {
		switch {
		case r.dir == Backward:
			l.undo = push(l.undo, a, l.max)
		case !stale:
			l.redo = push(l.redo, a, l.max)
		}
		return a
	}

	if ch.Replaced != 0 && ch.Upsert != nil {
		l.remap(ch.Replaced, ch.Upsert.ID)
		remapAction(&a, ch.Replaced, ch.Upsert.ID)
	}
	switch {
	case r.dir == Forward:
		l.undo = push(l.undo, a, l.max)
	case !stale:
		l.redo = push(l.redo, a, l.max)
	}
	return a
}

// Undo replays the inverse of the latest action against repo and moves it
// to the redo stack. On a store failure both stacks are left unchanged.
func (l *Log) Undo(ctx context.Context, repo event.Repository) (Change, error) {
	return l.replay(ctx, repo, Backward)
}

// Redo replays the latest undone action against repo and moves it back to
// the undo stack. On a store failure both stacks are left unchanged.
func (l *Log) Redo(ctx context.Context, repo event.Repository) (Change, error) {
	return l.replay(ctx, repo, Forward)
}

func (l *Log) replay(ctx context.Context, repo event.Repository, dir Direction) (Change, error) {
	r, err := l.Begin(dir)
	if err != nil {
		return Change{}, err
	}
	ch, err := r.Run(ctx, repo)
	l.Finish(r, ch, err)
	return ch, err
}

// Clear empties both stacks.
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
	l.gen++
}

func remove(ctx context.Context, repo event.Repository, id int64) (Change, error) {
	if err := repo.Delete(ctx, id); err != nil {
		return Change{}, err
	}
	return Change{Removed: id}, nil
}

func update(ctx context.Context, repo event.Repository, e *event.Event) (Change, error) {
	e = e.Clone()
	if err := repo.Update(ctx, e); err != nil {
		return Change{}, err
	}
	return Change{Upsert: e}, nil
}

// recreate stores a copy of e again. The store assigns a new ID.
func recreate(ctx context.Context, repo event.Repository, e *event.Event) (Change, error) {
	c := e.Clone()
	c.ID = 0
	if err := repo.Create(ctx, c); err != nil {
		return Change{}, err
	}
	return Change{Upsert: c.Clone(), Replaced: e.ID}, nil
}

func (l *Log) remap(oldID, newID int64) {
	for _, stack := range [][]Action{l.undo, l.redo} {
		for i := range stack {
			remapAction(&stack[i], oldID, newID)
		}
	}
}

func remapAction(a *Action, oldID, newID int64) {
	if oldID == newID {
		return
	}
	for _, e := range []*event.Event{a.Event, a.Old, a.New} {
		if e != nil && e.ID == oldID {
			e.ID = newID
		}
	}
}

func push(stack []Action, a Action, limit int) []Action {
	stack = append(stack, a)
	if len(stack) > limit {
		stack = stack[len(stack)-limit:]
	}
	return stack
}
