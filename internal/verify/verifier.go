// Package verify implements the single-pass claim verifier: one LLM call per claim.
package verify

import (
	"context"
	"fmt"

	"github.com/ppiankov/kepler/internal/llm"
	"github.com/ppiankov/kepler/internal/model"
)

// Result is the verifier's native output
type Result struct {
	Verdict       model.Verdict
	Confidence    float64 // [0,1]
	Reasoning     string
	MutationTypes []string
}

// Options tunes the verifier's LLM calls
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Verifier classifies a claim against its truth with a single completion
type Verifier struct {
	provider llm.Provider
	opts     Options
}

type rawResult struct {
	Verdict       string   `json:"verdict"`
	Confidence    *float64 `json:"confidence"`
	Reasoning     string   `json:"reasoning"`
	MutationTypes []string `json:"mutation_types"`
}

// NewVerifier creates a verifier backed by provider
func NewVerifier(provider llm.Provider, opts Options) *Verifier {
	return &Verifier{
		provider: provider,
		opts:     opts,
	}
}

// VerifyClaim returns the verdict for claim relative to truth
func (v *Verifier) VerifyClaim(ctx context.Context, claim, truth string) (*Result, error) {
	resp, err := v.provider.Complete(ctx, llm.CompletionRequest{
		System:      systemPrompt,
		Prompt:      BuildPrompt(claim, truth),
		Model:       v.opts.Model,
		MaxTokens:   v.opts.MaxTokens,
		Temperature: v.opts.Temperature,
		JSON:        true,
		Scope:       string(model.StrategySingleAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("verify claim: %w", err)
	}

	var raw rawResult
	if err := llm.DecodeJSON(resp.Text, &raw); err != nil {
		return nil, fmt.Errorf("verify claim: %w", err)
	}

	return raw.toResult()
}

func (r rawResult) toResult() (*Result, error) {
	verdict, err := model.ParseVerdict(r.Verdict)
	if err != nil {
		return nil, err
	}

	if r.Confidence == nil {
		return nil, model.SchemaViolation("verifier response has no confidence")
	}
	if *r.Confidence < 0 || *r.Confidence > 1 {
		return nil, model.SchemaViolation("confidence %v outside [0,1]", *r.Confidence)
	}

	mutations := make([]string, 0, len(r.MutationTypes))
	for _, m := range r.MutationTypes {
		if m != "" {
			mutations = append(mutations, m)
		}
	}

	return &Result{
		Verdict:       verdict,
		Confidence:    *r.Confidence,
		Reasoning:     r.Reasoning,
		MutationTypes: mutations,
	}, nil
}
