package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/llm"
)

func TestLLMExtractorParsesResponse(t *testing.T) {
	mock := llm.NewMockChatClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		assert.Contains(t, prompt, "議長")
		return "```json\n{\"speeches\": [{\"speaker\": \"議長\", \"speech_content\": \"こんにちは\"}, {\"speaker\": \"\", \"speech_content\": \"dropped\"}]}\n```", nil
	}

	pairs, err := NewLLMExtractor(mock, zap.NewNop()).Extract(context.Background(), "議長: こんにちは")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "議長", pairs[0].SpeakerName)
	assert.Equal(t, 1, mock.GenerateResponseCalls)
}

func TestLLMExtractorPropagatesClientError(t *testing.T) {
	mock := llm.NewMockChatClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return "", errors.New("timeout")
	}

	_, err := NewLLMExtractor(mock, zap.NewNop()).Extract(context.Background(), "text")
	assert.Error(t, err)
}

func TestLLMExtractorRejectsGarbage(t *testing.T) {
	mock := llm.NewMockChatClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return "no json here", nil
	}

	_, err := NewLLMExtractor(mock, zap.NewNop()).Extract(context.Background(), "text")
	assert.Error(t, err)
}
