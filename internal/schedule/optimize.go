package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/history"
	"github.com/javiermolinar/eventide/internal/layout"
	"github.com/javiermolinar/eventide/internal/llm"
)

// Optimizer proposes an alternative version of a schedule.
type Optimizer interface {
	Optimize(ctx context.Context, events []*event.Event, mask event.Mask) (*llm.OptimizeResult, error)
}

// Preview holds the current and the proposed schedule laid out side by side.
type Preview struct {
	Original layout.Grid
	Proposed layout.Grid
	Changed  []*event.Event // proposed events that differ from the loaded ones
	Message  string         // optimizer verdict when no schedule was proposed
	Mask     event.Mask
}

// HasChanges reports whether accepting the preview would change anything.
func (p *Preview) HasChanges() bool {
	return len(p.Changed) > 0
}

// Optimize asks opt for an alternative to the loaded events and lays out
// both versions over the displayed dates.
func (s *Schedule) Optimize(ctx context.Context, opt Optimizer, mask event.Mask) (*Preview, error) {
	current := s.Events()
	dates := s.Dates()

	cfg := s.Config()
	p := &Preview{Original: layout.Build(current, dates, cfg, s.log), Mask: mask}
	if len(current) == 0 {
		p.Message = llm.MessageEmpty
		p.Proposed = p.Original
		return p, nil
	}

	res, err := opt.Optimize(ctx, current, mask)
	if errors.Is(err, llm.ErrEmptySchedule) {
		p.Message = llm.MessageEmpty
		p.Proposed = p.Original
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("optimizing schedule: %w", err)
	}
	if res.Message != "" {
		p.Message = res.Message
		p.Proposed = p.Original
		return p, nil
	}

	byID := make(map[int64]*event.Event, len(current))
	for _, e := range current {
		byID[e.ID] = e
	}
	for _, e := range res.Schedule {
		if orig, ok := byID[e.ID]; ok && !orig.Equal(e) {
			p.Changed = append(p.Changed, e)
		}
	}

	p.Proposed = layout.Build(res.Schedule, dates, cfg, s.log)
	return p, nil
}

// AcceptPreview applies the changed events of p and returns a save that
// updates each of them in the repository. Locked events are skipped unless
// the preview's mask allowed changing the locked status.
func (s *Schedule) AcceptPreview(p *Preview) (Save, error) {
	if p == nil || !p.HasChanges() {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stored []*event.Event
	for _, e := range p.Changed {
		i := s.index(e.ID)
		if i < 0 {
			continue
		}
		old := s.events[i]
		if old.Locked && !p.Mask.Allows(event.FieldLocked) {
			s.log.Warnw("skipping locked event in optimized schedule", "id", e.ID)
			continue
		}
		next := e.Clone()
		s.events[i] = next
		s.record(history.Updated(old, next))
		stored = append(stored, next.Clone())
	}
	if len(stored) == 0 {
		return nil, nil
	}

	return func(ctx context.Context) error {
		var errs []error
		for _, e := range stored {
			if err := s.repo.Update(ctx, e); err != nil {
				errs = append(errs, fmt.Errorf("saving event %d: %w", e.ID, err))
			}
		}
		return errors.Join(errs...)
	}, nil
}
