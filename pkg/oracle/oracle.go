// Package oracle answers "which canonical politician is this name?" when
// rule-based lookup cannot.
package oracle

import "context"

// Verdict is the oracle's best guess for one candidate name. A nil
// PoliticianID means the oracle found nobody plausible; Confidence is then
// meaningless and treated as zero.
type Verdict struct {
	PoliticianID *int64
	Confidence   float64 // 0.0-1.0
	Reasoning    string
}

// MatchOracle proposes a canonical politician id with a confidence score
// for an extracted name. Implementations may be rule engines or LLMs; the
// matcher never trusts a proposed id without verifying it exists.
type MatchOracle interface {
	Propose(ctx context.Context, name string, party *string) (*Verdict, error)
}

// MockOracle is a configurable mock for tests.
type MockOracle struct {
	// ProposeFunc is called when Propose is invoked. If nil, returns a
	// nil-id verdict.
	ProposeFunc func(ctx context.Context, name string, party *string) (*Verdict, error)

	ProposeCalls int
}

// Propose implements MatchOracle.
func (m *MockOracle) Propose(ctx context.Context, name string, party *string) (*Verdict, error) {
	m.ProposeCalls++
	if m.ProposeFunc != nil {
		return m.ProposeFunc(ctx, name, party)
	}
	return &Verdict{}, nil
}

var (
	_ MatchOracle = (*LLMOracle)(nil)
	_ MatchOracle = (*MockOracle)(nil)
)
