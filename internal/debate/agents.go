package debate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/kepler/internal/model"
	"github.com/ppiankov/kepler/internal/verify"
)

// Role identifies a debate participant
type Role string

const (
	RoleProsecutor     Role = "prosecutor"
	RoleDefense        Role = "defense"
	RoleEpistemologist Role = "epistemologist"
	RoleJudge          Role = "judge"
	RoleForcedBinary   Role = "forced_binary"
)

// Accusation is one mutation the prosecutor alleges
type Accusation struct {
	MutationType string `json:"mutation_type"`
	Explanation  string `json:"explanation"`
	Evidence     string `json:"evidence"`
}

// ProsecutorResponse is one prosecutor turn
type ProsecutorResponse struct {
	Accusations []Accusation `json:"accusations"`
	Confidence  float64      `json:"confidence"` // That the claim is mutated
}

// Rebuttal answers one accusation
type Rebuttal struct {
	Accusation      string `json:"accusation"`
	CounterArgument string `json:"counter_argument"`
}

// DefenseResponse is one defense turn
type DefenseResponse struct {
	Rebuttals  []Rebuttal `json:"rebuttals"`
	Confidence float64    `json:"confidence"` // That the claim is faithful
}

// EpistemologistResponse is one epistemologist turn
type EpistemologistResponse struct {
	KeyUncertainty             string    `json:"key_uncertainty"`
	VerifiableFacts            []string  `json:"verifiable_facts"`
	RecommendedConfidenceRange []float64 `json:"recommended_confidence_range"`
	Assessment                 string    `json:"assessment"`
}

// Confidence is the upper bound of the recommended range, 0 when no range was given
func (r EpistemologistResponse) Confidence() float64 {
	if len(r.RecommendedConfidenceRange) == 0 {
		return 0
	}
	return r.RecommendedConfidenceRange[len(r.RecommendedConfidenceRange)-1]
}

type judgeResponse struct {
	Verdict    string   `json:"verdict"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

func (r ProsecutorResponse) validate() error {
	return checkConfidence(RoleProsecutor, r.Confidence)
}

func (r DefenseResponse) validate() error {
	return checkConfidence(RoleDefense, r.Confidence)
}

func (r EpistemologistResponse) validate() error {
	if len(r.RecommendedConfidenceRange) > 2 {
		return model.SchemaViolation("epistemologist range has %d bounds", len(r.RecommendedConfidenceRange))
	}
	for _, c := range r.RecommendedConfidenceRange {
		if err := checkConfidence(RoleEpistemologist, c); err != nil {
			return err
		}
	}
	if len(r.RecommendedConfidenceRange) == 2 && r.RecommendedConfidenceRange[0] > r.RecommendedConfidenceRange[1] {
		return model.SchemaViolation("epistemologist range %v is inverted", r.RecommendedConfidenceRange)
	}
	return nil
}

func checkConfidence(role Role, c float64) error {
	if c < 0 || c > 1 {
		return model.SchemaViolation("%s confidence %v outside [0,1]", role, c)
	}
	return nil
}

const (
	prosecutorSystem = `You are the PROSECUTOR in a fact-checking debate. Your job is to find every way the CLAIM distorts the reference TRUTH. Be specific and quote evidence. If the claim is faithful, say so with low confidence rather than inventing accusations.`

	defenseSystem = `You are the DEFENSE in a fact-checking debate. Your job is to argue that the CLAIM faithfully preserves the reference TRUTH, answering each of the prosecutor's accusations directly. Concede accusations that are correct.`

	epistemologistSystem = `You are the EPISTEMOLOGIST in a fact-checking debate. You do not take sides. You identify what the debate cannot settle from the reference TRUTH alone, list the facts that would settle it, and recommend a confidence range for the final ruling.`

	judgeSystem = `You are the JUDGE of a fact-checking debate. Weigh the arguments against the reference TRUTH and rule. Use "ambiguous" only when the truth genuinely does not settle the question.`

	forcedBinarySystem = `You are the JUDGE of a fact-checking debate. Your earlier ruling was "ambiguous", which is no longer allowed. You must now choose between "faithful" and "mutated", picking whichever the evidence favors even slightly.`
)

func casePreamble(claim, truth string) string {
	return fmt.Sprintf("CLAIM:\n%s\n\nREFERENCE TRUTH:\n%s\n", strings.TrimSpace(claim), strings.TrimSpace(truth))
}

func formatTranscript(transcript []Turn) string {
	if len(transcript) == 0 {
		return "(The debate has not started.)"
	}
	var b strings.Builder
	for _, turn := range transcript {
		fmt.Fprintf(&b, "[Round %d] %s:\n%s\n\n", turn.Round, strings.ToUpper(string(turn.Role)), turn.Content)
	}
	return strings.TrimSpace(b.String())
}

func prosecutorPrompt(claim, truth string, transcript []Turn, round int) string {
	return fmt.Sprintf(`%s
DEBATE SO FAR:
%s

Round %d. List your accusations. mutation_type must be one of: %s.

Respond with a JSON object:
{
  "accusations": [{"mutation_type": "...", "explanation": "...", "evidence": "..."}],
  "confidence": number between 0 and 1 that the claim is mutated
}`, casePreamble(claim, truth), formatTranscript(transcript), round, strings.Join(verify.MutationTypes, ", "))
}

func defensePrompt(claim, truth string, transcript []Turn, round int) string {
	return fmt.Sprintf(`%s
DEBATE SO FAR:
%s

Round %d. Answer the prosecutor's latest accusations.

Respond with a JSON object:
{
  "rebuttals": [{"accusation": "...", "counter_argument": "..."}],
  "confidence": number between 0 and 1 that the claim is faithful
}`, casePreamble(claim, truth), formatTranscript(transcript), round)
}

func epistemologistPrompt(claim, truth string, transcript []Turn, round int) string {
	return fmt.Sprintf(`%s
DEBATE SO FAR:
%s

Round %d. Assess what remains uncertain.

Respond with a JSON object:
{
  "key_uncertainty": "the single most important open question",
  "verifiable_facts": ["facts that would settle it"],
  "recommended_confidence_range": [low, high],
  "assessment": "1-2 sentences"
}`, casePreamble(claim, truth), formatTranscript(transcript), round)
}

func judgePrompt(claim, truth string, transcript []Turn) string {
	return fmt.Sprintf(`%s
FULL DEBATE:
%s

Rule on the claim.

Respond with a JSON object:
{
  "verdict": "faithful" | "mutated" | "ambiguous",
  "confidence": number between 0 and 1,
  "reasoning": "2-3 sentences"
}`, casePreamble(claim, truth), formatTranscript(transcript))
}

func forcedBinaryPrompt(claim, truth string, transcript []Turn) string {
	return fmt.Sprintf(`%s
FULL DEBATE:
%s

Your previous ruling was "ambiguous". Choose a binary verdict now.

Respond with a JSON object:
{
  "verdict": "faithful" | "mutated",
  "confidence": number between 0 and 1,
  "reasoning": "2-3 sentences explaining which way the evidence leans"
}`, casePreamble(claim, truth), formatTranscript(transcript))
}
