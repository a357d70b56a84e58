// Package validate checks normalized results against their allowed domains
// before they are aggregated or exported.
package validate

import (
	"fmt"
	"math"

	"github.com/ppiankov/kepler/internal/model"
)

// Confidence checks a native [0,1] confidence
func Confidence(c float64) error {
	if math.IsNaN(c) || c < 0 || c > 1 {
		return model.SchemaViolation("confidence %v outside [0,1]", c)
	}
	return nil
}

// Percent checks a percentage confidence
func Percent(field string, p model.Percent) error {
	v := p.Float()
	if math.IsNaN(v) || v < 0 || v > 100 {
		return model.SchemaViolation("%s %v outside [0,100]", field, v)
	}
	return nil
}

// Result validates one normalized strategy result
func Result(r model.StrategyResult) error {
	if !r.Verdict.Valid() {
		return model.SchemaViolation("unknown verdict %q", string(r.Verdict))
	}
	if err := Percent("confidence", r.Confidence); err != nil {
		return err
	}
	if r.MutationTypes == nil {
		return model.SchemaViolation("mutation_types is null")
	}

	if !r.IsDebate() {
		return nil
	}
	d := r.DebateDetail
	if d.ForcedBinaryUsed {
		if d.InitialVerdict == nil {
			return model.SchemaViolation("forced_binary_used without initial_verdict")
		}
		if !d.InitialVerdict.Valid() {
			return model.SchemaViolation("unknown initial_verdict %q", string(*d.InitialVerdict))
		}
		if !r.Verdict.Binary() {
			return model.SchemaViolation("forced result has non-binary verdict %q", string(r.Verdict))
		}
	} else if d.InitialVerdict != nil {
		return model.SchemaViolation("initial_verdict set without forcing")
	}

	for _, track := range []struct {
		name  string
		track model.ArgumentTrack
	}{
		{"prosecutor", d.Agents.Prosecutor},
		{"defense", d.Agents.Defense},
	} {
		if err := Percent(track.name+" final_confidence", track.track.FinalConfidence); err != nil {
			return err
		}
		for _, round := range track.track.AllRounds {
			if err := Percent(fmt.Sprintf("%s round %d confidence", track.name, round.Round), round.Confidence); err != nil {
				return err
			}
		}
	}
	if err := Percent("epistemologist final_confidence", d.Agents.Epistemologist.FinalConfidence); err != nil {
		return err
	}
	for _, round := range d.Agents.Epistemologist.AllRounds {
		if err := Percent(fmt.Sprintf("epistemologist round %d confidence", round.Round), round.Confidence); err != nil {
			return err
		}
	}
	return nil
}

// Record validates every strategy result of a record and its derived flags
func Record(r model.ComparisonRecord) error {
	for _, s := range model.Strategies() {
		res, _ := r.Result(s)
		if err := Result(res); err != nil {
			return model.NewCaseError(r.ID, s, model.ErrSchemaViolation, err)
		}
		if debate := s != model.StrategySingleAgent; res.IsDebate() != debate {
			return model.NewCaseError(r.ID, s, model.ErrSchemaViolation,
				fmt.Errorf("debate detail present = %v, want %v", res.IsDebate(), debate))
		}
	}

	if r.MultiAgentStandard.IsDebate() && r.MultiAgentStandard.ForcedBinaryUsed {
		return model.NewCaseError(r.ID, model.StrategyMultiAgentStandard, model.ErrSchemaViolation,
			fmt.Errorf("standard debate reports forced binary"))
	}

	if want := model.Compare(r.SingleAgent, r.MultiAgentStandard, r.MultiAgentForced); r.Comparison != want {
		return model.NewCaseError(r.ID, "", model.ErrSchemaViolation,
			fmt.Errorf("comparison flags %+v disagree with verdicts (want %+v)", r.Comparison, want))
	}
	return nil
}

// Artifact validates a complete artifact before it is written
func Artifact(a model.Artifact) error {
	if a.Metadata.TotalCases != len(a.Cases) {
		return model.SchemaViolation("metadata total_cases %d, artifact has %d cases", a.Metadata.TotalCases, len(a.Cases))
	}

	seen := make(map[int]bool, len(a.Cases))
	for _, c := range a.Cases {
		if seen[c.ID] {
			return model.SchemaViolation("duplicate case_id %d", c.ID)
		}
		seen[c.ID] = true
		if err := Record(c); err != nil {
			return err
		}
	}

	stats := a.Statistics
	for _, s := range model.Strategies() {
		counts := stats.VerdictDistribution.For(s)
		if counts.Total() != len(a.Cases) {
			return model.SchemaViolation("%s verdict distribution totals %d, want %d", s, counts.Total(), len(a.Cases))
		}
	}
	for _, s := range model.Strategies() {
		var p model.Percent
		switch s {
		case model.StrategySingleAgent:
			p = stats.AverageConfidence.SingleAgent
		case model.StrategyMultiAgentStandard:
			p = stats.AverageConfidence.MultiAgentStandard
		case model.StrategyMultiAgentForced:
			p = stats.AverageConfidence.MultiAgentForced
		}
		if err := Percent("average_confidence."+string(s), p); err != nil {
			return err
		}
	}
	if stats.ForcedBinaryStats.VerdictChangedByForcing > stats.ForcedBinaryStats.TotalForced {
		return model.SchemaViolation("verdict_changed_by_forcing %d exceeds total_forced %d",
			stats.ForcedBinaryStats.VerdictChangedByForcing, stats.ForcedBinaryStats.TotalForced)
	}
	return nil
}
