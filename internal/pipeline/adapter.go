package pipeline

import (
	"fmt"

	"github.com/ppiankov/kepler/internal/debate"
	"github.com/ppiankov/kepler/internal/model"
	"github.com/ppiankov/kepler/internal/validate"
	"github.com/ppiankov/kepler/internal/verify"
)

// FromSingle normalizes a single-pass verifier result.
// Confidence is converted from [0,1] to a one-decimal percentage here and nowhere else.
func FromSingle(r *verify.Result) (model.StrategyResult, error) {
	if r == nil {
		return model.StrategyResult{}, fmt.Errorf("verifier returned no result")
	}
	if err := validate.Confidence(r.Confidence); err != nil {
		return model.StrategyResult{}, err
	}

	res := model.StrategyResult{
		Strategy:      model.StrategySingleAgent,
		Verdict:       r.Verdict,
		Confidence:    model.ToPercent(r.Confidence),
		Reasoning:     r.Reasoning,
		MutationTypes: nonNil(r.MutationTypes),
		LLMCalls:      1,
	}
	if err := validate.Result(res); err != nil {
		return model.StrategyResult{}, err
	}
	return res, nil
}

// FromDebate normalizes a debate result for strategy s.
// Forcing must be consistent: an initial verdict exists exactly when forcing was used,
// and the standard strategy never forces.
func FromDebate(s model.Strategy, r *debate.Result) (model.StrategyResult, error) {
	if r == nil {
		return model.StrategyResult{}, fmt.Errorf("debate returned no result")
	}
	if err := validate.Confidence(r.Confidence); err != nil {
		return model.StrategyResult{}, err
	}
	if r.ForcedBinaryUsed && r.InitialVerdict == nil {
		return model.StrategyResult{}, model.SchemaViolation("forced_binary_used without initial verdict")
	}
	if !r.ForcedBinaryUsed && r.InitialVerdict != nil {
		return model.StrategyResult{}, model.SchemaViolation("initial verdict without forced_binary_used")
	}
	if s == model.StrategyMultiAgentStandard && r.ForcedBinaryUsed {
		return model.StrategyResult{}, model.SchemaViolation("standard debate used forced binary")
	}

	agents, err := agentPanel(r)
	if err != nil {
		return model.StrategyResult{}, err
	}

	var initial *model.Verdict
	if r.InitialVerdict != nil {
		v := *r.InitialVerdict
		initial = &v
	}

	res := model.StrategyResult{
		Strategy:      s,
		Verdict:       r.FinalVerdict,
		Confidence:    model.ToPercent(r.Confidence),
		Reasoning:     r.VerdictReasoning,
		MutationTypes: nonNil(r.Prosecutor.MutationTypes),
		LLMCalls:      len(r.Transcript),
		DebateDetail: &model.DebateDetail{
			TranscriptLength: len(r.Transcript),
			Agents:           agents,
			ForcedBinaryUsed: r.ForcedBinaryUsed,
			InitialVerdict:   initial,
		},
	}
	if err := validate.Result(res); err != nil {
		return model.StrategyResult{}, err
	}
	return res, nil
}

func agentPanel(r *debate.Result) (model.AgentPanel, error) {
	var panel model.AgentPanel

	panel.Prosecutor.AllRounds = make([]model.ArgumentRound, 0, len(r.ProsecutorRounds))
	for i, resp := range r.ProsecutorRounds {
		if err := validate.Confidence(resp.Confidence); err != nil {
			return panel, fmt.Errorf("prosecutor round %d: %w", i+1, err)
		}
		args := make([]string, 0, len(resp.Accusations))
		for _, acc := range resp.Accusations {
			args = append(args, acc.Explanation)
		}
		panel.Prosecutor.AllRounds = append(panel.Prosecutor.AllRounds, model.ArgumentRound{
			Round:      i + 1,
			Arguments:  args,
			Confidence: model.ToPercent(resp.Confidence),
		})
	}
	panel.Prosecutor.FinalArguments = nonNil(r.Prosecutor.Arguments)
	panel.Prosecutor.FinalConfidence = model.ToPercent(r.Prosecutor.Confidence)

	panel.Defense.AllRounds = make([]model.ArgumentRound, 0, len(r.DefenseRounds))
	for i, resp := range r.DefenseRounds {
		if err := validate.Confidence(resp.Confidence); err != nil {
			return panel, fmt.Errorf("defense round %d: %w", i+1, err)
		}
		args := make([]string, 0, len(resp.Rebuttals))
		for _, reb := range resp.Rebuttals {
			args = append(args, reb.CounterArgument)
		}
		panel.Defense.AllRounds = append(panel.Defense.AllRounds, model.ArgumentRound{
			Round:      i + 1,
			Arguments:  args,
			Confidence: model.ToPercent(resp.Confidence),
		})
	}
	panel.Defense.FinalArguments = nonNil(r.Defense.Arguments)
	panel.Defense.FinalConfidence = model.ToPercent(r.Defense.Confidence)

	panel.Epistemologist.AllRounds = make([]model.EpistemologistRound, 0, len(r.EpistemologistRounds))
	for i, resp := range r.EpistemologistRounds {
		if err := validate.Confidence(resp.Confidence()); err != nil {
			return panel, fmt.Errorf("epistemologist round %d: %w", i+1, err)
		}
		panel.Epistemologist.AllRounds = append(panel.Epistemologist.AllRounds, model.EpistemologistRound{
			Round:           i + 1,
			KeyUncertainty:  resp.KeyUncertainty,
			VerifiableFacts: nonNil(resp.VerifiableFacts),
			Confidence:      model.ToPercent(resp.Confidence()),
		})
	}
	// The final snapshot leads with the key uncertainty, or the assessment when none was named
	if args := r.Epistemologist.Arguments; len(args) > 0 {
		panel.Epistemologist.FinalUncertainty = args[0]
	} else if n := len(r.EpistemologistRounds); n > 0 {
		panel.Epistemologist.FinalUncertainty = r.EpistemologistRounds[n-1].KeyUncertainty
	}
	panel.Epistemologist.FinalConfidence = model.ToPercent(r.Epistemologist.Confidence)

	for _, c := range []float64{r.Prosecutor.Confidence, r.Defense.Confidence, r.Epistemologist.Confidence} {
		if err := validate.Confidence(c); err != nil {
			return panel, fmt.Errorf("final agent snapshot: %w", err)
		}
	}

	return panel, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
