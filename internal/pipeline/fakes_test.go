package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/kepler/internal/debate"
	"github.com/ppiankov/kepler/internal/model"
	"github.com/ppiankov/kepler/internal/verify"
)

// callLog records collaborator invocations across fakes
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, s)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeSingle struct {
	results map[string]*verify.Result // keyed by claim
	err     map[string]error
	log     *callLog
}

func (f *fakeSingle) VerifyClaim(ctx context.Context, claim, truth string) (*verify.Result, error) {
	if f.log != nil {
		f.log.add("single:" + claim)
	}
	if err := f.err[claim]; err != nil {
		return nil, err
	}
	r, ok := f.results[claim]
	if !ok {
		return nil, fmt.Errorf("no scripted result for %q", claim)
	}
	return r, nil
}

type fakeMulti struct {
	standard map[string]*debate.Result
	forced   map[string]*debate.Result
	err      map[string]error
	log      *callLog
}

func (f *fakeMulti) RunFullDebate(ctx context.Context, claim, truth string, opts debate.Options) (*debate.Result, error) {
	kind := "standard"
	results := f.standard
	if opts.ForceBinaryIfAmbiguous {
		kind = "forced"
		results = f.forced
	}
	if f.log != nil {
		f.log.add(kind + ":" + claim)
	}
	if err := f.err[kind+":"+claim]; err != nil {
		return nil, err
	}
	r, ok := results[claim]
	if !ok {
		return nil, fmt.Errorf("no scripted %s result for %q", kind, claim)
	}
	return r, nil
}

func single(v model.Verdict, conf float64, mutations ...string) *verify.Result {
	return &verify.Result{
		Verdict:       v,
		Confidence:    conf,
		Reasoning:     fmt.Sprintf("single says %s", v),
		MutationTypes: mutations,
	}
}

// debated builds a one-round debate result; a non-empty forcedFrom marks it as forced
func debated(v model.Verdict, conf float64, forcedFrom model.Verdict) *debate.Result {
	transcript := []debate.Turn{
		{Round: 1, Role: debate.RoleProsecutor, Content: "{}"},
		{Round: 1, Role: debate.RoleDefense, Content: "{}"},
		{Round: 1, Role: debate.RoleEpistemologist, Content: "{}"},
		{Round: 0, Role: debate.RoleJudge, Content: "{}"},
	}
	r := &debate.Result{
		FinalVerdict:     v,
		Confidence:       conf,
		VerdictReasoning: fmt.Sprintf("judge says %s", v),
		ProsecutorRounds: []debate.ProsecutorResponse{{
			Accusations: []debate.Accusation{{MutationType: "negation", Explanation: "The claim negates the truth."}},
			Confidence:  0.7,
		}},
		DefenseRounds: []debate.DefenseResponse{{
			Rebuttals:  []debate.Rebuttal{{Accusation: "negation", CounterArgument: "The wording is equivalent."}},
			Confidence: 0.35,
		}},
		EpistemologistRounds: []debate.EpistemologistResponse{{
			KeyUncertainty:             "Whether the qualifier changes scope.",
			VerifiableFacts:            []string{"Original wording"},
			RecommendedConfidenceRange: []float64{0.4, 0.6},
		}},
		Prosecutor:     debate.AgentSnapshot{Role: debate.RoleProsecutor, Arguments: []string{"The claim negates the truth."}, Confidence: 0.7, MutationTypes: []string{"negation"}},
		Defense:        debate.AgentSnapshot{Role: debate.RoleDefense, Arguments: []string{"The wording is equivalent."}, Confidence: 0.35},
		Epistemologist: debate.AgentSnapshot{Role: debate.RoleEpistemologist, Arguments: []string{"Whether the qualifier changes scope."}, Confidence: 0.6},
	}
	if forcedFrom != "" {
		initial := forcedFrom
		r.ForcedBinaryUsed = true
		r.InitialVerdict = &initial
		r.Transcript = append(transcript, debate.Turn{Role: debate.RoleForcedBinary, Content: "{}"})
	} else {
		r.Transcript = transcript
	}
	return r
}

func testCases(n int) []model.Case {
	cases := make([]model.Case, n)
	for i := range cases {
		cases[i] = model.Case{ID: i, Claim: fmt.Sprintf("claim-%d", i), Truth: fmt.Sprintf("truth-%d", i)}
	}
	return cases
}

// threeCaseFixture: case 0 all faithful, case 1 all mutated, case 2 standard ambiguous and forcing flips it to mutated
func threeCaseFixture(log *callLog) (*fakeSingle, *fakeMulti) {
	s := &fakeSingle{
		results: map[string]*verify.Result{
			"claim-0": single(model.VerdictFaithful, 0.9),
			"claim-1": single(model.VerdictMutated, 0.8, "entity_swap"),
			"claim-2": single(model.VerdictMutated, 0.755, "scope_change"),
		},
		log: log,
	}
	m := &fakeMulti{
		standard: map[string]*debate.Result{
			"claim-0": debated(model.VerdictFaithful, 0.85, ""),
			"claim-1": debated(model.VerdictMutated, 0.7, ""),
			"claim-2": debated(model.VerdictAmbiguous, 0.5, ""),
		},
		forced: map[string]*debate.Result{
			"claim-0": debated(model.VerdictFaithful, 0.85, ""),
			"claim-1": debated(model.VerdictMutated, 0.7, ""),
			"claim-2": debated(model.VerdictMutated, 0.6, model.VerdictAmbiguous),
		},
		log: log,
	}
	return s, m
}
