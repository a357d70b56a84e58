package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/ppiankov/kepler/internal/model"
)

func verdictPtr(v model.Verdict) *model.Verdict {
	return &v
}

func singleResult(v model.Verdict, conf model.Percent) model.StrategyResult {
	return model.StrategyResult{
		Strategy:      model.StrategySingleAgent,
		Verdict:       v,
		Confidence:    conf,
		MutationTypes: []string{},
		LLMCalls:      1,
	}
}

func debateResult(s model.Strategy, v model.Verdict, conf model.Percent, forced bool, initial *model.Verdict) model.StrategyResult {
	return model.StrategyResult{
		Strategy:      s,
		Verdict:       v,
		Confidence:    conf,
		MutationTypes: []string{},
		LLMCalls:      7,
		DebateDetail: &model.DebateDetail{
			TranscriptLength: 7,
			ForcedBinaryUsed: forced,
			InitialVerdict:   initial,
		},
	}
}

func validRecord(id int) model.ComparisonRecord {
	r := model.ComparisonRecord{
		Case:               model.Case{ID: id, Claim: "c", Truth: "t"},
		SingleAgent:        singleResult(model.VerdictFaithful, 90),
		MultiAgentStandard: debateResult(model.StrategyMultiAgentStandard, model.VerdictAmbiguous, 55, false, nil),
		MultiAgentForced:   debateResult(model.StrategyMultiAgentForced, model.VerdictMutated, 60, true, verdictPtr(model.VerdictAmbiguous)),
	}
	r.Comparison = model.Compare(r.SingleAgent, r.MultiAgentStandard, r.MultiAgentForced)
	return r
}

func validArtifact() model.Artifact {
	cases := []model.ComparisonRecord{validRecord(0), validRecord(1)}
	a := model.Artifact{
		Metadata: model.Metadata{TotalCases: 2, Systems: model.Strategies(), Description: model.ArtifactDescription},
		Cases:    cases,
	}
	a.Statistics.AverageConfidence = model.StrategyPercents{SingleAgent: 90, MultiAgentStandard: 55, MultiAgentForced: 60}
	a.Statistics.VerdictDistribution = model.StrategyDistributions{
		SingleAgent:        model.VerdictCounts{Faithful: 2},
		MultiAgentStandard: model.VerdictCounts{Ambiguous: 2},
		MultiAgentForced:   model.VerdictCounts{Mutated: 2},
	}
	a.Statistics.ForcedBinaryStats = model.ForcedBinaryStats{TotalForced: 2, VerdictChangedByForcing: 2}
	return a
}

func TestPercent(t *testing.T) {
	tests := []struct {
		p       model.Percent
		wantErr bool
	}{
		{0, false},
		{100, false},
		{55.5, false},
		{-0.1, true},
		{100.1, true},
		{model.Percent(math.NaN()), true},
	}

	for _, tt := range tests {
		err := Percent("confidence", tt.p)
		if (err != nil) != tt.wantErr {
			t.Errorf("Percent(%v) error = %v, wantErr %v", tt.p, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, model.ErrSchemaViolation) {
			t.Errorf("expected schema violation, got %v", err)
		}
	}
}

func TestConfidence(t *testing.T) {
	if err := Confidence(0.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Confidence(1.01); err == nil {
		t.Error("expected error above 1")
	}
	if err := Confidence(math.NaN()); err == nil {
		t.Error("expected error for NaN")
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		name    string
		result  model.StrategyResult
		wantErr bool
	}{
		{"single ok", singleResult(model.VerdictMutated, 80), false},
		{"unknown verdict", singleResult("true", 80), true},
		{"confidence over 100", singleResult(model.VerdictMutated, 120), true},
		{"nil mutations", model.StrategyResult{Verdict: model.VerdictFaithful, Confidence: 10}, true},
		{"standard ok", debateResult(model.StrategyMultiAgentStandard, model.VerdictAmbiguous, 50, false, nil), false},
		{"forced ok", debateResult(model.StrategyMultiAgentForced, model.VerdictFaithful, 50, true, verdictPtr(model.VerdictAmbiguous)), false},
		{"forced without initial", debateResult(model.StrategyMultiAgentForced, model.VerdictFaithful, 50, true, nil), true},
		{"forced but ambiguous", debateResult(model.StrategyMultiAgentForced, model.VerdictAmbiguous, 50, true, verdictPtr(model.VerdictAmbiguous)), true},
		{"initial without forcing", debateResult(model.StrategyMultiAgentForced, model.VerdictFaithful, 50, false, verdictPtr(model.VerdictAmbiguous)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Result(tt.result)
			if (err != nil) != tt.wantErr {
				t.Errorf("Result() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResult_AgentRoundConfidence(t *testing.T) {
	r := debateResult(model.StrategyMultiAgentStandard, model.VerdictMutated, 50, false, nil)
	r.Agents.Defense.AllRounds = []model.ArgumentRound{{Round: 1, Confidence: 40}, {Round: 2, Confidence: 140}}

	if err := Result(r); err == nil {
		t.Error("expected error for out-of-range round confidence")
	}
}

func TestRecord(t *testing.T) {
	if err := Record(validRecord(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := validRecord(3)
	bad.MultiAgentForced.Confidence = 101
	err := Record(bad)

	var caseErr *model.CaseError
	if !errors.As(err, &caseErr) {
		t.Fatalf("expected CaseError, got %v", err)
	}
	if caseErr.CaseID != 3 || caseErr.Strategy != model.StrategyMultiAgentForced {
		t.Errorf("unexpected error context: %+v", caseErr)
	}
	if !errors.Is(err, model.ErrSchemaViolation) {
		t.Errorf("expected schema violation, got %v", err)
	}
}

func TestRecord_DebateDetailPlacement(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.ComparisonRecord)
		strategy model.Strategy
	}{
		{"single agent with debate detail", func(r *model.ComparisonRecord) {
			r.SingleAgent.DebateDetail = &model.DebateDetail{}
		}, model.StrategySingleAgent},
		{"standard debate without detail", func(r *model.ComparisonRecord) {
			r.MultiAgentStandard.DebateDetail = nil
		}, model.StrategyMultiAgentStandard},
		{"forced debate without detail", func(r *model.ComparisonRecord) {
			r.MultiAgentForced.DebateDetail = nil
		}, model.StrategyMultiAgentForced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord(2)
			tt.mutate(&r)

			err := Record(r)
			var caseErr *model.CaseError
			if !errors.As(err, &caseErr) {
				t.Fatalf("expected CaseError, got %v", err)
			}
			if caseErr.Strategy != tt.strategy {
				t.Errorf("expected failure on %s, got %s", tt.strategy, caseErr.Strategy)
			}
			if !errors.Is(err, model.ErrSchemaViolation) {
				t.Errorf("expected schema violation, got %v", err)
			}
		})
	}
}

func TestRecord_InconsistentComparison(t *testing.T) {
	r := validRecord(0)
	r.Comparison.SingleVsStandard = true

	if err := Record(r); !errors.Is(err, model.ErrSchemaViolation) {
		t.Errorf("expected schema violation, got %v", err)
	}
}

func TestArtifact(t *testing.T) {
	if err := Artifact(validArtifact()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.Artifact)
	}{
		{"total mismatch", func(a *model.Artifact) { a.Metadata.TotalCases = 3 }},
		{"duplicate id", func(a *model.Artifact) { a.Cases[1].ID = 0 }},
		{"distribution total", func(a *model.Artifact) { a.Statistics.VerdictDistribution.SingleAgent.Faithful = 1 }},
		{"average out of range", func(a *model.Artifact) { a.Statistics.AverageConfidence.MultiAgentForced = 100.5 }},
		{"changed exceeds forced", func(a *model.Artifact) { a.Statistics.ForcedBinaryStats.TotalForced = 1 }},
		{"bad record", func(a *model.Artifact) { a.Cases[0].SingleAgent.Verdict = "maybe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArtifact()
			tt.mutate(&a)
			if err := Artifact(a); !errors.Is(err, model.ErrSchemaViolation) {
				t.Errorf("expected schema violation, got %v", err)
			}
		})
	}
}
