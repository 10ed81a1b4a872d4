package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gikai-lab/minutes-engine/pkg/jsonutil"
	"github.com/gikai-lab/minutes-engine/pkg/llm"
	"github.com/gikai-lab/minutes-engine/pkg/models"
)

const oracleSystemMessage = `You resolve extracted Japanese politician names
against a known roster. Pick at most one roster entry. Respond with JSON only:
{"politician_id": <id or null>, "confidence": <0.0-1.0>, "reasoning": "..."}
Use null when no roster entry is a plausible match. Account for name
variants (kanji/kana, width, honorifics) and the party hint when given.`

// Roster lists the canonical politicians the oracle may choose from.
type Roster interface {
	List(ctx context.Context) ([]*models.Politician, error)
}

// LLMOracle asks a chat model to resolve a candidate name against the
// canonical roster.
type LLMOracle struct {
	client llm.ChatClient
	roster Roster
	logger *zap.Logger
}

// NewLLMOracle creates an LLM-backed matching oracle.
func NewLLMOracle(client llm.ChatClient, roster Roster, logger *zap.Logger) *LLMOracle {
	return &LLMOracle{client: client, roster: roster, logger: logger.Named("oracle")}
}

// llmVerdict is the raw JSON shape; loosely typed because models sometimes
// return "10" for ids and "0.8" for numbers.
type llmVerdict struct {
	PoliticianID json.RawMessage `json:"politician_id"`
	Confidence   json.RawMessage `json:"confidence"`
	Reasoning    string          `json:"reasoning"`
}

// Propose implements MatchOracle.
func (o *LLMOracle) Propose(ctx context.Context, name string, party *string) (*Verdict, error) {
	politicians, err := o.roster.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if len(politicians) == 0 {
		return &Verdict{Reasoning: "empty roster"}, nil
	}

	response, err := o.client.GenerateResponse(ctx, o.buildPrompt(name, party, politicians), oracleSystemMessage, 0.0)
	if err != nil {
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}

	raw, err := llm.ParseJSONResponse[llmVerdict](response)
	if err != nil {
		return nil, fmt.Errorf("parse oracle response: %w", err)
	}

	verdict := &Verdict{Reasoning: raw.Reasoning}
	if id, ok := jsonutil.FlexibleInt64Value(raw.PoliticianID); ok {
		verdict.PoliticianID = &id
	}
	if c, ok := jsonutil.FlexibleFloatValue(raw.Confidence); ok {
		verdict.Confidence = clamp01(c)
	}

	o.logger.Debug("Oracle verdict",
		zap.String("name", name),
		zap.Any("politician_id", verdict.PoliticianID),
		zap.Float64("confidence", verdict.Confidence))

	return verdict, nil
}

func (o *LLMOracle) buildPrompt(name string, party *string, politicians []*models.Politician) string {
	var b strings.Builder

	b.WriteString("Extracted name: ")
	b.WriteString(name)
	b.WriteString("\n")
	if party != nil && *party != "" {
		b.WriteString("Party hint: ")
		b.WriteString(*party)
		b.WriteString("\n")
	}

	b.WriteString("\nRoster (id\tname\tparty):\n")
	for _, p := range politicians {
		party := ""
		if p.Party != nil {
			party = *p.Party
		}
		fmt.Fprintf(&b, "%d\t%s\t%s\n", p.ID, p.Name, party)
	}

	return b.String()
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
