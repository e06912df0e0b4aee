package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotBaseURL  = "https://api.githubcopilot.com"

	// DefaultModel is the default model for optimization and summaries.
	DefaultModel = "gpt-4o"

	editorVersion = "Eventide/1.0"
)

// CopilotClient implements the Client interface using GitHub Copilot's API.
type CopilotClient struct {
	client openai.Client
	model  string
}

// tokenResponse represents the response from GitHub's token exchange endpoint.
type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewCopilotClient creates a new Copilot client.
// It loads the GitHub token and exchanges it for a Copilot bearer token.
func NewCopilotClient(model string) (*CopilotClient, error) {
	if model == "" {
		model = DefaultModel
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}

	bearerToken, err := exchangeToken(httpClient, copilotTokenURL, githubToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}

	client := openai.NewClient(
		option.WithBaseURL(copilotBaseURL),
		option.WithAPIKey(bearerToken),
		option.WithHeader("Editor-Version", editorVersion),
		option.WithHeader("Editor-Plugin-Version", editorVersion),
		option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
	)

	return &CopilotClient{client: client, model: model}, nil
}

// exchangeToken exchanges a GitHub OAuth token for a Copilot bearer token.
func exchangeToken(httpClient *http.Client, url, githubToken string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+githubToken)
	req.Header.Set("User-Agent", editorVersion)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return tokenResp.Token, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *CopilotClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return chatCompletion(ctx, c.client, c.model, messages)
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *CopilotClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

// chatCompletion runs one chat completion against an OpenAI-compatible API.
func chatCompletion(ctx context.Context, client openai.Client, model string, messages []Message) (string, error) {
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

func decodeJSON(content string, result any) error {
	if err := json.Unmarshal([]byte(extractJSON(content)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}
