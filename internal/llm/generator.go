package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/javiermolinar/eventide/internal/event"
)

// ErrNoValidEvents is returned when nothing the model generated passes validation.
var ErrNoValidEvents = errors.New("no valid events generated")

// Generator creates realistic sample events.
type Generator struct {
	client Client
	log    event.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(client Client, log event.Logger) *Generator {
	if log == nil {
		log = event.NopLogger()
	}
	return &Generator{client: client, log: log}
}

// GenerateEvent returns one new event of type "event" on date.
func (g *Generator) GenerateEvent(ctx context.Context, date string) (*event.Event, error) {
	events, err := g.generate(ctx, date, false)
	if err != nil {
		return nil, err
	}
	e := events[0]
	e.Type = event.TypeEvent
	return e, nil
}

// GenerateSchedule returns a set of new events on date.
func (g *Generator) GenerateSchedule(ctx context.Context, date string) ([]*event.Event, error) {
	return g.generate(ctx, date, true)
}

func (g *Generator) generate(ctx context.Context, date string, schedule bool) ([]*event.Event, error) {
	ask := "Generate one event."
	if schedule {
		ask = "Generate a schedule."
	}
	content, err := g.client.Chat(ctx, []Message{
		{Role: RoleSystem, Content: generatorPrompt(date, schedule)},
		{Role: RoleUser, Content: ask},
	})
	if err != nil {
		return nil, fmt.Errorf("generating events: %w", err)
	}

	raw, err := decodeSchedule(content)
	if err != nil {
		return nil, err
	}

	var out []*event.Event
	for _, e := range raw {
		if e == nil {
			continue
		}
		e.ID = 0
		if e.StartDate == "" {
			e.StartDate = date
		}
		if e.EndDate == "" {
			e.EndDate = e.StartDate
		}
		if err := e.Normalize(); err != nil {
			g.log.Warnw("skipping generated event", "title", e.Title, "error", err)
			continue
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, ErrNoValidEvents
	}
	return out, nil
}
