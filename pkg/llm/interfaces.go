// Package llm provides chat-completion clients for the matching oracle and
// the LLM speech extractor.
package llm

import "context"

// ChatClient is the minimal chat-completion surface the pipeline needs.
// Use this interface for dependency injection to enable mocking in tests.
type ChatClient interface {
	// GenerateResponse generates a chat completion response.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Ensure the concrete clients implement ChatClient at compile time.
var (
	_ ChatClient = (*OpenAIClient)(nil)
	_ ChatClient = (*AnthropicClient)(nil)
	_ ChatClient = (*MockChatClient)(nil)
)
