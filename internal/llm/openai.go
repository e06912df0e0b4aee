package llm

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultLMStudioBaseURL = "http://localhost:1234/v1"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
)

// OpenAIClient implements the Client interface for OpenAI and any
// OpenAI-compatible server such as LM Studio.
type OpenAIClient struct {
	client  openai.Client
	model   string
	baseURL string
}

// NewOpenAIClient creates a client for the OpenAI API. An empty apiKey
// falls back to OPENAI_API_KEY.
func NewOpenAIClient(model, baseURL, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return newOpenAIClient(model, baseURL, apiKey), nil
}

// NewLMStudioClient creates a client for LM Studio's OpenAI-compatible API.
func NewLMStudioClient(model, baseURL string) (*OpenAIClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("lm studio model is required")
	}
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}

	apiKey := os.Getenv("LMSTUDIO_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		apiKey = "lm-studio"
	}

	return newOpenAIClient(model, baseURL, apiKey), nil
}

func newOpenAIClient(model, baseURL, apiKey string) *OpenAIClient {
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)
	return &OpenAIClient{client: client, model: model, baseURL: baseURL}
}

// Chat sends messages to the LLM and returns the response.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return chatCompletion(ctx, c.client, c.model, messages)
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *OpenAIClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}
