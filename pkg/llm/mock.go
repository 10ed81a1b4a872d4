package llm

import "context"

// MockChatClient is a configurable mock for testing LLM-backed components.
// Set the function field to control behavior in tests.
type MockChatClient struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns empty string and nil error.
	GenerateResponseFunc func(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// Call tracking for verification
	GenerateResponseCalls int
}

// NewMockChatClient creates a new mock with sensible defaults.
func NewMockChatClient() *MockChatClient {
	return &MockChatClient{ModelName: "mock-model"}
}

// GenerateResponse implements ChatClient.
func (m *MockChatClient) GenerateResponse(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
	m.GenerateResponseCalls++
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt, systemMessage, temperature)
	}
	return "", nil
}

// Model implements ChatClient.
func (m *MockChatClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}
