package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Config holds configuration for creating a chat client.
type Config struct {
	Provider string // "openai" or "anthropic"
	Endpoint string // base URL for OpenAI-compatible endpoints
	Model    string
	APIKey   string
}

// NewChatClient creates the chat client selected by cfg.Provider.
func NewChatClient(cfg *Config, logger *zap.Logger) (ChatClient, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(cfg.Endpoint, cfg.Model, cfg.APIKey, logger)
	case "anthropic":
		return NewAnthropicClient(cfg.Model, cfg.APIKey, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
