package model

import (
	"fmt"
	"strings"
)

// Verdict is the classification a strategy assigns to a claim relative to its reference truth
type Verdict string

const (
	VerdictFaithful  Verdict = "faithful"  // Claim preserves the meaning of the truth
	VerdictMutated   Verdict = "mutated"   // Claim alters the truth (negation, entity swap, ...)
	VerdictAmbiguous Verdict = "ambiguous" // Evidence does not settle either way
)

// Verdicts returns the three allowed verdicts in reporting order
func Verdicts() []Verdict {
	return []Verdict{VerdictFaithful, VerdictMutated, VerdictAmbiguous}
}

// Valid reports whether v is one of the three allowed verdicts
func (v Verdict) Valid() bool {
	switch v {
	case VerdictFaithful, VerdictMutated, VerdictAmbiguous:
		return true
	default:
		return false
	}
}

// Binary reports whether v is a decisive (non-ambiguous) verdict
func (v Verdict) Binary() bool {
	return v == VerdictFaithful || v == VerdictMutated
}

func (v Verdict) String() string {
	return string(v)
}

// ParseVerdict normalizes raw collaborator output into a Verdict.
// Anything outside the three allowed values is rejected.
func ParseVerdict(raw string) (Verdict, error) {
	v := Verdict(strings.ToLower(strings.TrimSpace(raw)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: unknown verdict %q", ErrSchemaViolation, raw)
	}
	return v, nil
}

// Strategy identifies one of the compared verification strategies
type Strategy string

const (
	StrategySingleAgent        Strategy = "single_agent"
	StrategyMultiAgentStandard Strategy = "multi_agent_standard"
	StrategyMultiAgentForced   Strategy = "multi_agent_forced"
)

// Strategies returns the compared strategies in invocation order
func Strategies() []Strategy {
	return []Strategy{StrategySingleAgent, StrategyMultiAgentStandard, StrategyMultiAgentForced}
}
