package extract

import (
	"context"
	"regexp"
	"strings"
)

// speakerLinePattern matches "speaker: speech" lines. Both half-width and
// full-width colons appear in published minutes. The speaker part is kept
// short so prose containing a colon is not misread as an utterance.
var speakerLinePattern = regexp.MustCompile(`^([^:：\s]{1,20})[:：]\s*(.*)$`)

// RuleExtractor extracts utterances from line-oriented minutes of the
// form "議長: こんにちは". Lines that match no speaker pattern continue
// the previous utterance; leading text before the first speaker is dropped.
type RuleExtractor struct{}

// NewRuleExtractor creates a rule-based extractor.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// Extract implements Extractor.
func (e *RuleExtractor) Extract(_ context.Context, text string) ([]SpeechPair, error) {
	var pairs []SpeechPair
	var current *SpeechPair

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := speakerLinePattern.FindStringSubmatch(trimmed); m != nil {
			if current != nil {
				pairs = append(pairs, *current)
			}
			current = &SpeechPair{
				SpeakerName:   m[1],
				SpeechContent: strings.TrimSpace(m[2]),
			}
			continue
		}

		if current != nil {
			if current.SpeechContent != "" {
				current.SpeechContent += "\n"
			}
			current.SpeechContent += trimmed
		}
	}

	if current != nil {
		pairs = append(pairs, *current)
	}

	return pairs, nil
}
