package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/eventide/internal/event"
)

// Optimizer verdicts returned instead of a schedule.
const (
	MessagePerfect        = "Perfect Schedule"
	MessageEmpty          = "Empty Schedule Provided"
	MessageIncorrectShape = "Incorrect JSON Object Structure"
)

var (
	// ErrEmptySchedule is returned when there is nothing to optimize.
	ErrEmptySchedule = errors.New("empty schedule provided")
	// ErrBadResponse is returned when the model answers with neither a verdict nor a schedule.
	ErrBadResponse = errors.New("unrecognized optimizer response")
)

// OptimizeResult is either a proposed schedule or a verdict message.
type OptimizeResult struct {
	Schedule []*event.Event `json:"schedule,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// Optimizer asks an LLM for an improved schedule and enforces the
// modification mask on the answer.
type Optimizer struct {
	client Client
	log    event.Logger
}

// NewOptimizer creates an Optimizer.
func NewOptimizer(client Client, log event.Logger) *Optimizer {
	if log == nil {
		log = event.NopLogger()
	}
	return &Optimizer{client: client, log: log}
}

type scheduleEnvelope struct {
	Schedule []*event.Event `json:"schedule"`
}

// Optimize proposes a new version of events. Fields outside mask are kept
// from the originals, unknown entries are dropped and missing ones kept.
func (o *Optimizer) Optimize(ctx context.Context, events []*event.Event, mask event.Mask) (*OptimizeResult, error) {
	if len(events) == 0 {
		return nil, ErrEmptySchedule
	}

	payload, err := json.Marshal(scheduleEnvelope{Schedule: events})
	if err != nil {
		return nil, fmt.Errorf("encoding schedule: %w", err)
	}

	messages := []Message{
		{Role: RoleSystem, Content: optimizerPrompt(mask.Allows(event.FieldLocked)) + "\n" + mask.Describe()},
		{Role: RoleUser, Content: "Schedule to be Improved: " + string(payload)},
	}

	content, err := o.client.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("optimizing schedule: %w", err)
	}

	output := stripFence(content)
	if isVerdict(output) {
		return &OptimizeResult{Message: output}, nil
	}

	proposed, err := decodeSchedule(output)
	if err != nil {
		return nil, err
	}

	return &OptimizeResult{Schedule: enforceMask(events, proposed, mask, o.log)}, nil
}

func isVerdict(s string) bool {
	return s == MessagePerfect || s == MessageEmpty || strings.HasPrefix(s, MessageIncorrectShape)
}

// decodeSchedule accepts {"schedule": [...]}, a bare array or a single event.
func decodeSchedule(content string) ([]*event.Event, error) {
	raw := []byte(extractJSON(content))

	var env scheduleEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Schedule != nil {
		return env.Schedule, nil
	}

	var list []*event.Event
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single event.Event
	if err := json.Unmarshal(raw, &single); err == nil && single.Title != "" {
		return []*event.Event{&single}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrBadResponse, content)
}

func enforceMask(original, proposed []*event.Event, mask event.Mask, log event.Logger) []*event.Event {
	byID := make(map[int64]*event.Event, len(proposed))
	known := make(map[int64]bool, len(original))
	for _, e := range original {
		known[e.ID] = true
	}
	for _, p := range proposed {
		if p == nil {
			continue
		}
		if !known[p.ID] {
			log.Warnw("dropping optimizer entry with unknown id", "id", p.ID, "title", p.Title)
			continue
		}
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = p
		}
	}

	out := make([]*event.Event, 0, len(original))
	for _, orig := range original {
		p, ok := byID[orig.ID]
		if !ok || orig.ID == 0 {
			out = append(out, orig.Clone())
			continue
		}
		next := mask.Apply(orig, p)
		if err := next.Normalize(); err != nil {
			log.Warnw("keeping original after invalid optimizer entry", "id", orig.ID, "error", err)
			out = append(out, orig.Clone())
			continue
		}
		out = append(out, next)
	}
	return out
}
