package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/kepler/internal/model"
)

// CaseRunner runs every strategy on one case
type CaseRunner interface {
	RunCase(ctx context.Context, c model.Case) (*model.ComparisonRecord, error)
}

// CaseJob represents one case comparison
type CaseJob struct {
	Index  int
	Case   model.Case
	Runner CaseRunner

	// Abort receives the case's error before its result is delivered
	Abort func(error)
}

// Execute executes the case job
func (j *CaseJob) Execute(ctx context.Context) Result {
	record, err := j.Runner.RunCase(ctx, j.Case)
	if err == nil && record == nil {
		err = model.NewCaseError(j.Case.ID, "", model.ErrCollaboratorFailure, fmt.Errorf("runner returned no record"))
	}
	if err != nil && j.Abort != nil {
		j.Abort(err)
	}
	return &CaseResult{
		Index:  j.Index,
		CaseID: j.Case.ID,
		Record: record,
		Error:  err,
	}
}

// CaseResult represents the result of a case job
type CaseResult struct {
	Index  int
	CaseID int
	Record *model.ComparisonRecord
	Error  error
}

// GetError returns the error from the case result
func (r *CaseResult) GetError() error {
	return r.Error
}

// BatchProcessor runs cases concurrently and returns records in input order
type BatchProcessor struct {
	runner      CaseRunner
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor. concurrency 1 reproduces sequential processing.
func NewBatchProcessor(runner CaseRunner, concurrency int, logger *zap.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessCases runs every case and returns one record per case in input order.
// The first failure cancels outstanding work before any queued case starts and is
// returned; no partial records are returned with it.
func (b *BatchProcessor) ProcessCases(ctx context.Context, cases []model.Case) ([]model.ComparisonRecord, error) {
	if len(cases) == 0 {
		return []model.ComparisonRecord{}, nil
	}

	pool := NewPool(ctx, b.concurrency)

	var (
		failOnce sync.Once
		firstErr error
	)
	abort := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			pool.Cancel()
		})
	}

	pool.Start()
	defer pool.Cancel()

	go func() {
		defer pool.Close()
		for i, c := range cases {
			if !pool.Submit(&CaseJob{Index: i, Case: c, Runner: b.runner, Abort: abort}) {
				return
			}
		}
	}()

	start := time.Now()
	records := make([]*model.ComparisonRecord, len(cases))

	for res := range pool.Results() {
		cr, ok := res.(*CaseResult)
		if !ok || cr.Error != nil {
			continue
		}
		records[cr.Index] = cr.Record
		b.logger.Debug("case complete", zap.Int("case_id", cr.CaseID), zap.Int("index", cr.Index))
	}

	// Results is closed only after every worker exited, so firstErr is settled
	if firstErr != nil {
		b.logger.Debug("batch aborted", zap.Error(firstErr))
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]model.ComparisonRecord, 0, len(records))
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("case %d produced no result", cases[i].ID)
		}
		out = append(out, *r)
	}

	b.logger.Debug("batch complete",
		zap.Int("cases", len(out)),
		zap.Int("workers", b.concurrency),
		zap.Duration("elapsed", time.Since(start)))

	return out, nil
}
