// Package debate runs the multi-agent debate collaborator: prosecutor, defense and
// epistemologist argue over a claim for a fixed number of rounds, then a judge rules.
package debate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/kepler/internal/llm"
	"github.com/ppiankov/kepler/internal/model"
)

// DefaultRounds is the number of argument rounds before the judge rules
const DefaultRounds = 2

// Config tunes the orchestrator's LLM calls
type Config struct {
	Rounds      int
	Model       string
	MaxTokens   int
	Temperature float64
}

// Options select per-debate behavior
type Options struct {
	// ForceBinaryIfAmbiguous asks the judge for a binary ruling when its first ruling is ambiguous
	ForceBinaryIfAmbiguous bool
}

// scope names the strategy a debate runs for, so the standard and forced
// debates on one case never share cached completions
func (opts Options) scope() string {
	if opts.ForceBinaryIfAmbiguous {
		return string(model.StrategyMultiAgentForced)
	}
	return string(model.StrategyMultiAgentStandard)
}

// Turn is one entry of the debate transcript
type Turn struct {
	Round   int    `json:"round"` // 0 for judge and forced-binary turns
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AgentSnapshot is a role's final-round position
type AgentSnapshot struct {
	Role          Role
	Arguments     []string
	Confidence    float64
	MutationTypes []string // Prosecutor only
}

// Result is the orchestrator's native output
type Result struct {
	FinalVerdict     model.Verdict
	Confidence       float64
	VerdictReasoning string
	Transcript       []Turn // One entry per LLM call

	ProsecutorRounds     []ProsecutorResponse
	DefenseRounds        []DefenseResponse
	EpistemologistRounds []EpistemologistResponse

	Prosecutor     AgentSnapshot
	Defense        AgentSnapshot
	Epistemologist AgentSnapshot

	ForcedBinaryUsed bool
	InitialVerdict   *model.Verdict // Judge's ruling before forcing; nil unless forced
}

// Orchestrator runs debates over a single provider
type Orchestrator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// NewOrchestrator creates a debate orchestrator
func NewOrchestrator(provider llm.Provider, config Config, logger *zap.Logger) *Orchestrator {
	if config.Rounds <= 0 {
		config.Rounds = DefaultRounds
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// Rounds returns the configured number of argument rounds
func (o *Orchestrator) Rounds() int {
	return o.config.Rounds
}

// RunFullDebate debates claim against truth and returns the judge's ruling
func (o *Orchestrator) RunFullDebate(ctx context.Context, claim, truth string, opts Options) (*Result, error) {
	start := time.Now()
	res := &Result{}
	scope := opts.scope()

	for round := 1; round <= o.config.Rounds; round++ {
		var pros ProsecutorResponse
		if err := o.turn(ctx, scope, res, RoleProsecutor, round, prosecutorSystem, prosecutorPrompt(claim, truth, res.Transcript, round), &pros); err != nil {
			return nil, err
		}
		if err := pros.validate(); err != nil {
			return nil, fmt.Errorf("prosecutor round %d: %w", round, err)
		}
		res.ProsecutorRounds = append(res.ProsecutorRounds, pros)

		var def DefenseResponse
		if err := o.turn(ctx, scope, res, RoleDefense, round, defenseSystem, defensePrompt(claim, truth, res.Transcript, round), &def); err != nil {
			return nil, err
		}
		if err := def.validate(); err != nil {
			return nil, fmt.Errorf("defense round %d: %w", round, err)
		}
		res.DefenseRounds = append(res.DefenseRounds, def)

		var epi EpistemologistResponse
		if err := o.turn(ctx, scope, res, RoleEpistemologist, round, epistemologistSystem, epistemologistPrompt(claim, truth, res.Transcript, round), &epi); err != nil {
			return nil, err
		}
		if err := epi.validate(); err != nil {
			return nil, fmt.Errorf("epistemologist round %d: %w", round, err)
		}
		res.EpistemologistRounds = append(res.EpistemologistRounds, epi)
	}

	res.Prosecutor = prosecutorSnapshot(res.ProsecutorRounds[len(res.ProsecutorRounds)-1])
	res.Defense = defenseSnapshot(res.DefenseRounds[len(res.DefenseRounds)-1])
	res.Epistemologist = epistemologistSnapshot(res.EpistemologistRounds[len(res.EpistemologistRounds)-1])

	verdict, confidence, reasoning, err := o.rule(ctx, scope, res, RoleJudge, judgeSystem, judgePrompt(claim, truth, res.Transcript))
	if err != nil {
		return nil, err
	}

	if opts.ForceBinaryIfAmbiguous && verdict == model.VerdictAmbiguous {
		initial := verdict
		verdict, confidence, reasoning, err = o.rule(ctx, scope, res, RoleForcedBinary, forcedBinarySystem, forcedBinaryPrompt(claim, truth, res.Transcript))
		if err != nil {
			return nil, err
		}
		if !verdict.Binary() {
			return nil, model.SchemaViolation("forced-binary ruling returned %q", verdict)
		}
		res.ForcedBinaryUsed = true
		res.InitialVerdict = &initial
	}

	res.FinalVerdict = verdict
	res.Confidence = confidence
	res.VerdictReasoning = reasoning

	o.logger.Debug("debate complete",
		zap.String("verdict", string(verdict)),
		zap.Bool("forced", res.ForcedBinaryUsed),
		zap.Int("llm_calls", len(res.Transcript)),
		zap.Duration("elapsed", time.Since(start)))

	return res, nil
}

// turn runs one agent call, records it in the transcript and decodes the JSON reply into out
func (o *Orchestrator) turn(ctx context.Context, scope string, res *Result, role Role, round int, system, prompt string, out any) error {
	resp, err := o.provider.Complete(ctx, llm.CompletionRequest{
		System:      system,
		Prompt:      prompt,
		Model:       o.config.Model,
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
		JSON:        true,
		Scope:       scope,
	})
	if err != nil {
		return fmt.Errorf("%s round %d: %w", role, round, err)
	}

	o.logger.Debug("debate turn",
		zap.String("role", string(role)),
		zap.Int("round", round),
		zap.Int("tokens", resp.TokensUsed),
		zap.Bool("cached", resp.Cached))

	if err := llm.DecodeJSON(resp.Text, out); err != nil {
		return fmt.Errorf("%s round %d: %w", role, round, err)
	}

	// Transcript entries hold the decoded reply as compact JSON
	content, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("%s round %d: %w", role, round, err)
	}
	res.Transcript = append(res.Transcript, Turn{Round: round, Role: role, Content: string(content)})
	return nil
}

func (o *Orchestrator) rule(ctx context.Context, scope string, res *Result, role Role, system, prompt string) (model.Verdict, float64, string, error) {
	var jr judgeResponse
	if err := o.turn(ctx, scope, res, role, 0, system, prompt, &jr); err != nil {
		return "", 0, "", err
	}

	verdict, err := model.ParseVerdict(jr.Verdict)
	if err != nil {
		return "", 0, "", fmt.Errorf("%s: %w", role, err)
	}
	if jr.Confidence == nil {
		return "", 0, "", fmt.Errorf("%s: %w", role, model.SchemaViolation("ruling has no confidence"))
	}
	if err := checkConfidence(role, *jr.Confidence); err != nil {
		return "", 0, "", err
	}
	return verdict, *jr.Confidence, jr.Reasoning, nil
}

func prosecutorSnapshot(r ProsecutorResponse) AgentSnapshot {
	snap := AgentSnapshot{
		Role:          RoleProsecutor,
		Arguments:     make([]string, 0, len(r.Accusations)),
		Confidence:    r.Confidence,
		MutationTypes: []string{},
	}
	seen := make(map[string]bool)
	for _, acc := range r.Accusations {
		snap.Arguments = append(snap.Arguments, acc.Explanation)
		if acc.MutationType != "" && !seen[acc.MutationType] {
			seen[acc.MutationType] = true
			snap.MutationTypes = append(snap.MutationTypes, acc.MutationType)
		}
	}
	return snap
}

func defenseSnapshot(r DefenseResponse) AgentSnapshot {
	snap := AgentSnapshot{
		Role:       RoleDefense,
		Arguments:  make([]string, 0, len(r.Rebuttals)),
		Confidence: r.Confidence,
	}
	for _, reb := range r.Rebuttals {
		snap.Arguments = append(snap.Arguments, reb.CounterArgument)
	}
	return snap
}

func epistemologistSnapshot(r EpistemologistResponse) AgentSnapshot {
	snap := AgentSnapshot{
		Role:       RoleEpistemologist,
		Arguments:  []string{},
		Confidence: r.Confidence(),
	}
	if r.KeyUncertainty != "" {
		snap.Arguments = append(snap.Arguments, r.KeyUncertainty)
	}
	if r.Assessment != "" {
		snap.Arguments = append(snap.Arguments, r.Assessment)
	}
	return snap
}
