package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/llm"
)

const extractorSystemMessage = `You analyze Japanese council meeting minutes.
Split the transcript into individual utterances. Respond with JSON only:
{"speeches": [{"speaker": "...", "speech_content": "..."}]}
Keep the original wording of each utterance. Do not invent speakers.`

// llmExtractionResult is the JSON shape the model is asked to produce.
type llmExtractionResult struct {
	Speeches []SpeechPair `json:"speeches"`
}

// LLMExtractor delegates utterance splitting to a chat model. Useful for
// scanned or free-form minutes the rule extractor cannot segment.
type LLMExtractor struct {
	client llm.ChatClient
	logger *zap.Logger
}

// NewLLMExtractor creates an LLM-backed extractor.
func NewLLMExtractor(client llm.ChatClient, logger *zap.Logger) *LLMExtractor {
	return &LLMExtractor{client: client, logger: logger.Named("extractor")}
}

// Extract implements Extractor.
func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]SpeechPair, error) {
	prompt := "Transcript:\n\n" + text

	response, err := e.client.GenerateResponse(ctx, prompt, extractorSystemMessage, 0.0)
	if err != nil {
		return nil, fmt.Errorf("speech extraction failed: %w", err)
	}

	result, err := llm.ParseJSONResponse[llmExtractionResult](response)
	if err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}

	// Drop entries the model left blank rather than failing the batch.
	speeches := result.Speeches[:0]
	for _, s := range result.Speeches {
		if strings.TrimSpace(s.SpeakerName) == "" || strings.TrimSpace(s.SpeechContent) == "" {
			continue
		}
		speeches = append(speeches, s)
	}

	e.logger.Debug("LLM extraction completed",
		zap.Int("input_len", len(text)),
		zap.Int("speeches", len(speeches)))

	return speeches, nil
}
