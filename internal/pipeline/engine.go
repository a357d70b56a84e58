package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/kepler/internal/debate"
	"github.com/ppiankov/kepler/internal/model"
	"github.com/ppiankov/kepler/internal/verify"
)

// SingleAgent is the single-pass verification collaborator
type SingleAgent interface {
	VerifyClaim(ctx context.Context, claim, truth string) (*verify.Result, error)
}

// MultiAgent is the debate collaborator
type MultiAgent interface {
	RunFullDebate(ctx context.Context, claim, truth string, opts debate.Options) (*debate.Result, error)
}

// Engine runs every strategy on a case and assembles the comparison record
type Engine struct {
	single   SingleAgent
	multi    MultiAgent
	reporter Reporter
	logger   *zap.Logger
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithReporter sets the progress reporter
func WithReporter(r Reporter) EngineOption {
	return func(e *Engine) {
		e.reporter = r
	}
}

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an engine over the two collaborators
func NewEngine(single SingleAgent, multi MultiAgent, opts ...EngineOption) *Engine {
	e := &Engine{
		single:   single,
		multi:    multi,
		reporter: NopReporter{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunCase runs single-agent, standard debate and forced-binary debate, in that order.
// Any collaborator failure or malformed result aborts the case with a *model.CaseError.
func (e *Engine) RunCase(ctx context.Context, c model.Case) (*model.ComparisonRecord, error) {
	start := time.Now()
	e.reporter.CaseStarted(c)

	e.reporter.StrategyStarted(c, model.StrategySingleAgent)
	sr, err := e.single.VerifyClaim(ctx, c.Claim, c.Truth)
	if err != nil {
		return nil, e.fail(c, model.StrategySingleAgent, err)
	}
	single, err := FromSingle(sr)
	if err != nil {
		return nil, e.fail(c, model.StrategySingleAgent, err)
	}

	standard, err := e.runDebate(ctx, c, model.StrategyMultiAgentStandard, debate.Options{})
	if err != nil {
		return nil, err
	}

	forced, err := e.runDebate(ctx, c, model.StrategyMultiAgentForced, debate.Options{ForceBinaryIfAmbiguous: true})
	if err != nil {
		return nil, err
	}

	record := &model.ComparisonRecord{
		Case:               c,
		SingleAgent:        single,
		MultiAgentStandard: standard,
		MultiAgentForced:   forced,
		Comparison:         model.Compare(single, standard, forced),
	}

	e.logger.Debug("case compared",
		zap.Int("case_id", c.ID),
		zap.String("single_agent", string(single.Verdict)),
		zap.String("multi_agent_standard", string(standard.Verdict)),
		zap.String("multi_agent_forced", string(forced.Verdict)),
		zap.Bool("forced_changed_verdict", record.Comparison.ForcedChangedVerdict),
		zap.Duration("elapsed", time.Since(start)))

	e.reporter.CaseFinished(record)
	return record, nil
}

func (e *Engine) runDebate(ctx context.Context, c model.Case, s model.Strategy, opts debate.Options) (model.StrategyResult, error) {
	e.reporter.StrategyStarted(c, s)
	dr, err := e.multi.RunFullDebate(ctx, c.Claim, c.Truth, opts)
	if err != nil {
		return model.StrategyResult{}, e.fail(c, s, err)
	}
	res, err := FromDebate(s, dr)
	if err != nil {
		return model.StrategyResult{}, e.fail(c, s, err)
	}
	return res, nil
}

func (e *Engine) fail(c model.Case, s model.Strategy, err error) error {
	caseErr := model.NewCaseError(c.ID, s, model.ErrCollaboratorFailure, err)
	e.logger.Debug("strategy failed", zap.Int("case_id", c.ID), zap.String("strategy", string(s)), zap.Error(err))
	e.reporter.CaseFailed(c, caseErr)
	return caseErr
}
