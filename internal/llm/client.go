// Package llm provides LLM clients and the schedule optimizer, summarizer
// and generator built on them.
package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
)

// ErrNoChoices is returned when a provider answers without any completion.
var ErrNoChoices = errors.New("no response choices returned")

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM providers.
type Client interface {
	// Chat sends messages to the LLM and returns the response.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatJSON sends messages and parses the response as JSON into the provided type.
	ChatJSON(ctx context.Context, messages []Message, result any) error
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			out[i] = openai.AssistantMessage(msg.Content)
		default:
			out[i] = openai.UserMessage(msg.Content)
		}
	}
	return out
}

// extractJSON attempts to extract JSON from a string that may contain markdown formatting.
func extractJSON(s string) string {
	for _, fence := range []string{"```json", "```"} {
		idx := strings.Index(s, fence)
		if idx == -1 {
			continue
		}
		start := idx + len(fence)
		for start < len(s) && (s[start] == '\n' || s[start] == '\r') {
			start++
		}
		if end := strings.Index(s[start:], "```"); end != -1 {
			return strings.TrimRight(s[start:start+end], "\r\n")
		}
	}

	// Raw JSON: the first balanced object or array.
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					return s[i : j+1]
				}
			}
		}
	}

	return s
}

// stripFence removes a surrounding markdown code fence, if any.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
