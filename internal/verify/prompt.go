package verify

import (
	"fmt"
	"strings"
)

// MutationTypes is the catalog of ways a claim can distort its source truth
var MutationTypes = []string{
	"negation",
	"entity_swap",
	"numerical_change",
	"temporal_shift",
	"scope_change",
	"causal_fabrication",
	"certainty_inflation",
	"omission",
}

const systemPrompt = `You are a meticulous fact-checking analyst. You compare a CLAIM against a reference TRUTH and decide whether the claim faithfully preserves the meaning of the truth.

You judge ONLY against the reference truth. Do not use outside knowledge.`

// BuildPrompt constructs the single-pass verification prompt
func BuildPrompt(claim, truth string) string {
	return fmt.Sprintf(`CLAIM:
%s

REFERENCE TRUTH:
%s

Classify the claim:
- "faithful": the claim preserves the meaning of the truth (paraphrase is fine).
- "mutated": the claim changes the meaning of the truth.
- "ambiguous": the truth does not settle whether the claim is faithful.

If mutated, list every mutation type that applies, chosen from:
%s

Respond with a JSON object:
{
  "verdict": "faithful" | "mutated" | "ambiguous",
  "confidence": number between 0 and 1,
  "reasoning": "2-3 sentences",
  "mutation_types": ["..."]
}`, strings.TrimSpace(claim), strings.TrimSpace(truth), bulletList(MutationTypes))
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}
