// Package extract turns raw transcript text into speaker/speech pairs.
package extract

import "context"

// SpeechPair is one extracted utterance.
type SpeechPair struct {
	SpeakerName   string `json:"speaker"`
	SpeechContent string `json:"speech_content"`
}

// Extractor extracts speaker/speech pairs from transcript text. An empty
// result is valid and means "nothing to process".
type Extractor interface {
	Extract(ctx context.Context, text string) ([]SpeechPair, error)
}

// MockExtractor is a configurable mock for tests.
type MockExtractor struct {
	// ExtractFunc is called when Extract is invoked. If nil, returns nil.
	ExtractFunc func(ctx context.Context, text string) ([]SpeechPair, error)

	ExtractCalls int
}

// Extract implements Extractor.
func (m *MockExtractor) Extract(ctx context.Context, text string) ([]SpeechPair, error) {
	m.ExtractCalls++
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, text)
	}
	return nil, nil
}

var (
	_ Extractor = (*RuleExtractor)(nil)
	_ Extractor = (*LLMExtractor)(nil)
	_ Extractor = (*MockExtractor)(nil)
)
