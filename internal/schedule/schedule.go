// Package schedule owns the displayed event set and applies user
// mutations to it: optimistic local changes first, then a save against
// the repository that the caller runs asynchronously.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/javiermolinar/eventide/internal/drag"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/history"
	"github.com/javiermolinar/eventide/internal/layout"
)

// ErrNoDates is returned when a schedule is loaded without displayed dates.
var ErrNoDates = errors.New("no dates to display")

// Save persists one optimistic mutation. Callers run it off the
// interaction path; a failure is reported and the local change is kept.
type Save func(ctx context.Context) error

// LockedError rejects a mutation of a locked event.
type LockedError struct {
	Op string
}

func (e *LockedError) Error() string {
	return "cannot " + e.Op + " a locked event"
}

// Is makes errors.Is(err, event.ErrLocked) hold.
func (e *LockedError) Is(target error) bool {
	return target == event.ErrLocked
}

// Schedule is the in-memory event set for the displayed dates.
type Schedule struct {
	replayMu sync.Mutex // one undo or redo at a time
	mu       sync.Mutex // guards the fields below
	repo     event.Repository
	history  *history.Log
	drag     *drag.Controller
	log      event.Logger
	cfg      layout.Config

	dates  []string
	events []*event.Event
}

// New creates a Schedule drawn with cfg.
func New(repo event.Repository, cfg layout.Config, log event.Logger) *Schedule {
	if log == nil {
		log = event.NopLogger()
	}
	axis := cfg.Axis
	if axis.Minutes() <= 0 {
		axis = layout.AxisFor(cfg.Window)
	}
	return &Schedule{
		repo:    repo,
		history: history.New(history.DefaultMaxEntries),
		drag:    drag.NewController(cfg.Window, drag.Scale{Minutes: axis.Minutes(), PixelHeight: cfg.PixelHeight}),
		log:     log,
		cfg:     cfg,
	}
}

// Load fetches the events touching dates, which must be sorted.
func (s *Schedule) Load(ctx context.Context, dates []string) error {
	if len(dates) == 0 {
		return ErrNoDates
	}
	events, err := s.repo.ListByRange(ctx, dates[0], dates[len(dates)-1])
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	kept := events[:0]
	for _, e := range events {
		if touches(e, dates) {
			kept = append(kept, e)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dates = slices.Clone(dates)
	s.events = kept
	return nil
}

// Dates returns the displayed dates.
func (s *Schedule) Dates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.dates)
}

// Events returns copies of the loaded events.
func (s *Schedule) Events() []*event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.events)
}

// Get returns a copy of a loaded event.
func (s *Schedule) Get(id int64) (*event.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.events[i].Clone(), true
	}
	return nil, false
}

// Layout computes the grid for the current event set.
func (s *Schedule) Layout() layout.Grid {
	return s.LayoutWith(nil)
}

// LayoutWith computes the grid with preview standing in for the loaded
// event of the same ID, as during a drag.
func (s *Schedule) LayoutWith(preview *event.Event) layout.Grid {
	s.mu.Lock()
	events := slices.Clone(s.events)
	dates := s.dates
	cfg := s.cfg
	s.mu.Unlock()

	if preview != nil {
		for i, e := range events {
			if e.ID == preview.ID {
				events[i] = preview
				break
			}
		}
	}
	return layout.Build(events, dates, cfg, s.log)
}

// Config returns the layout configuration.
func (s *Schedule) Config() layout.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// CanUndo reports whether there is an action to undo.
func (s *Schedule) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether there is an action to redo.
func (s *Schedule) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Create stores e and adds it to the set. The repository assigns the ID,
// so this call is synchronous.
func (s *Schedule) Create(ctx context.Context, e *event.Event) (*event.Event, error) {
	c := e.Clone()
	c.ID = 0
	if err := c.Normalize(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if touches(c, s.dates) {
		s.events = append(s.events, c.Clone())
	}
	s.record(history.Created(c))
	return c.Clone(), nil
}

// Update replaces the loaded event with e's ID. Locked events are rejected.
func (s *Schedule) Update(e *event.Event) (Save, error) {
	next := e.Clone()
	if err := next.Normalize(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(next.ID)
	if i < 0 {
		return nil, event.ErrEventNotFound
	}
	if s.events[i].Locked {
		return nil, &LockedError{Op: "edit"}
	}
	return s.replace(i, next), nil
}

// Delete removes an event. Locked events are rejected.
func (s *Schedule) Delete(id int64) (Save, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return nil, event.ErrEventNotFound
	}
	old := s.events[i]
	if old.Locked {
		return nil, &LockedError{Op: "delete"}
	}

	s.events = slices.Delete(s.events, i, i+1)
	s.record(history.Deleted(old))
	return func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting event %d: %w", id, err)
		}
		return nil
	}, nil
}

// ToggleLock locks an unlocked event. A locked event cannot be unlocked
// from the grid.
func (s *Schedule) ToggleLock(id int64) (Save, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return nil, event.ErrEventNotFound
	}
	if s.events[i].Locked {
		return nil, &LockedError{Op: "unlock"}
	}
	next := s.events[i].Clone()
	next.Locked = true
	return s.replace(i, next), nil
}

// SetDragScale updates the rendered column height used to convert pointer
// moves to minutes and to detect small blocks.
func (s *Schedule) SetDragScale(pixelHeight float64) {
	s.mu.Lock()
	s.cfg.PixelHeight = pixelHeight
	axis := s.cfg.Axis
	if axis.Minutes() <= 0 {
		axis = layout.AxisFor(s.cfg.Window)
	}
	s.mu.Unlock()

	s.drag.SetScale(drag.Scale{Minutes: axis.Minutes(), PixelHeight: pixelHeight})
}

// BeginDrag starts a gesture on a loaded event.
func (s *Schedule) BeginDrag(id int64, h drag.Handle, originY float64) (*drag.Session, error) {
	e, ok := s.Get(id)
	if !ok {
		return nil, event.ErrEventNotFound
	}
	sess, err := s.drag.Begin(e, h, originY)
	if errors.Is(err, event.ErrLocked) {
		return nil, &LockedError{Op: gestureVerb(h)}
	}
	return sess, err
}

// CommitDrag ends a gesture. An invalid result leaves the set untouched
// and returns drag.ErrInvalidResult. A gesture that changed nothing
// returns a nil Save.
func (s *Schedule) CommitDrag(sess *drag.Session) (Save, error) {
	res, err := sess.Commit()
	if err != nil {
		return nil, err
	}
	if !res.Changed {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(res.Event.ID)
	if i < 0 {
		return nil, event.ErrEventNotFound
	}
	if s.events[i].Locked {
		return nil, &LockedError{Op: "move"}
	}
	next := s.events[i].Clone()
	next.Start, next.End = res.Event.Start, res.Event.End
	return s.replace(i, next), nil
}

// Undo reverts the latest action against the repository and mirrors the
// effect in the set. The set stays readable during the store round trip.
func (s *Schedule) Undo(ctx context.Context) (history.Action, error) {
	return s.replay(ctx, history.Backward)
}

// Redo replays the latest undone action.
func (s *Schedule) Redo(ctx context.Context) (history.Action, error) {
	return s.replay(ctx, history.Forward)
}

func (s *Schedule) replay(ctx context.Context, dir history.Direction) (history.Action, error) {
	s.replayMu.Lock()
	defer s.replayMu.Unlock()

	s.mu.Lock()
	r, err := s.history.Begin(dir)
	s.mu.Unlock()
	if err != nil {
		return history.Action{}, err
	}

	ch, err := r.Run(ctx, s.repo)

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.history.Finish(r, ch, err)
	if err != nil {
		return history.Action{}, err
	}
	s.apply(ch)
	return a, nil
}

// replace swaps the event at i for next, records the update and returns
// the save. Callers hold s.mu.
func (s *Schedule) replace(i int, next *event.Event) Save {
	old := s.events[i]
	s.events[i] = next
	s.record(history.Updated(old, next))

	stored := next.Clone()
	return func(ctx context.Context) error {
		if err := s.repo.Update(ctx, stored); err != nil {
			return fmt.Errorf("saving event %d: %w", stored.ID, err)
		}
		return nil
	}
}

func (s *Schedule) record(a history.Action) {
	if err := s.history.Record(a); err != nil {
		s.log.Warnw("not recording action", "kind", a.Kind, "error", err)
	}
}

func (s *Schedule) apply(ch history.Change) {
	if ch.Removed != 0 {
		if i := s.index(ch.Removed); i >= 0 {
			s.events = slices.Delete(s.events, i, i+1)
		}
	}
	if ch.Upsert != nil {
		e := ch.Upsert.Clone()
		switch i := s.index(e.ID); {
		case i >= 0 && touches(e, s.dates):
			s.events[i] = e
		case i >= 0:
			s.events = slices.Delete(s.events, i, i+1)
		case touches(e, s.dates):
			s.events = append(s.events, e)
		}
	}
}

func (s *Schedule) index(id int64) int {
	return slices.IndexFunc(s.events, func(e *event.Event) bool { return e.ID == id })
}

func gestureVerb(h drag.Handle) string {
	if h.Mode() == drag.Moving {
		return "move"
	}
	return "resize"
}

// touches reports whether e occurs on any of dates.
func touches(e *event.Event, dates []string) bool {
	for _, d := range dates {
		if e.OccursOn(d) {
			return true
		}
	}
	return false
}

func cloneAll(events []*event.Event) []*event.Event {
	out := make([]*event.Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}
