package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaClient talks to a local Ollama server through langchaingo.
type OllamaClient struct {
	llm     *ollama.LLM
	model   string
	baseURL string
}

// NewOllamaClient returns a client for model served at baseURL, which
// defaults to the local Ollama port.
func NewOllamaClient(model, baseURL string) (*OllamaClient, error) {
	if model == "" {
		return nil, errors.New("ollama model is required")
	}
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	llm, err := ollama.New(ollama.WithModel(model), ollama.WithServerURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &OllamaClient{llm: llm, model: model, baseURL: baseURL}, nil
}

// Chat implements Client.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.generate(ctx, messages)
}

// ChatJSON implements Client. Ollama is asked for JSON output, and code
// fences are stripped anyway since some models add them regardless.
func (c *OllamaClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.generate(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func (c *OllamaClient) generate(ctx context.Context, messages []Message, opts ...llms.CallOption) (string, error) {
	opts = append(opts, llms.WithModel(c.model))
	resp, err := c.llm.GenerateContent(ctx, langChainMessages(messages), opts...)
	if err != nil {
		return "", fmt.Errorf("ollama %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Content, nil
}

// langChainMessages maps roles onto langchaingo message types. Unknown
// roles are sent as the user.
func langChainMessages(messages []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		role := llms.ChatMessageTypeHuman
		switch strings.ToLower(msg.Role) {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		out[i] = llms.TextParts(role, msg.Content)
	}
	return out
}
