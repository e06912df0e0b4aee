package llm

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/eventide/internal/config"
)

const (
	ProviderCopilot  = "copilot"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// NewClient creates an LLM client for the configured provider.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderCopilot:
		return NewCopilotClient(cfg.Model)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.Model, openAIBaseURL(cfg.BaseURL), cfg.APIKey)
	case ProviderOllama:
		return NewOllamaClient(cfg.Model, cfg.BaseURL)
	case ProviderLMStudio, "lm-studio", "llmstudio":
		return NewLMStudioClient(cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// openAIBaseURL drops the ollama default that config carries for every provider.
func openAIBaseURL(baseURL string) string {
	if baseURL == config.Default().LLM.BaseURL {
		return ""
	}
	return baseURL
}
