package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/javiermolinar/eventide/internal/event"
)

// NoEventsSummary is returned for an empty schedule without calling the model.
const NoEventsSummary = "No events scheduled for this date."

// Summarizer produces a one-line summary of a schedule.
type Summarizer struct {
	client Client
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(client Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize returns a single-line summary of events.
func (s *Summarizer) Summarize(ctx context.Context, events []*event.Event) (string, error) {
	if len(events) == 0 {
		return NoEventsSummary, nil
	}

	payload, err := json.Marshal(scheduleEnvelope{Schedule: events})
	if err != nil {
		return "", fmt.Errorf("encoding schedule: %w", err)
	}

	content, err := s.client.Chat(ctx, []Message{
		{Role: RoleSystem, Content: summarizerPrompt},
		{Role: RoleUser, Content: "Schedule: " + string(payload)},
	})
	if err != nil {
		return "", fmt.Errorf("summarizing schedule: %w", err)
	}

	return oneLine(stripFence(content)), nil
}

// oneLine collapses all whitespace runs, newlines included, to single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
