// Package pipeline runs claim/truth cases through the compared strategies and
// exports the comparison artifact.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/kepler/internal/model"
	"github.com/ppiankov/kepler/internal/score"
	"github.com/ppiankov/kepler/internal/worker"
)

// Pipeline orchestrates a complete comparison run
type Pipeline struct {
	batch  *worker.BatchProcessor
	logger *zap.Logger
}

// NewPipeline creates a pipeline that runs engine over up to concurrency cases at once
func NewPipeline(engine *Engine, concurrency int, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		batch:  worker.NewBatchProcessor(engine, concurrency, logger),
		logger: logger,
	}
}

// Run compares every case and aggregates the results into an artifact.
// Nothing is written; on error no artifact is returned.
func (p *Pipeline) Run(ctx context.Context, cases []model.Case) (*model.Artifact, error) {
	start := time.Now()

	// 1. Run strategies on every case, in input order
	records, err := p.batch.ProcessCases(ctx, cases)
	if err != nil {
		return nil, err
	}

	// 2. Aggregate
	summary, err := score.Summarize(records)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	// 3. Assemble
	artifact := BuildArtifact(records, summary)

	p.logger.Info("comparison complete",
		zap.Int("cases", len(records)),
		zap.Int("forced", summary.ForcedBinaryStats.TotalForced),
		zap.Int("changed_by_forcing", summary.ForcedBinaryStats.VerdictChangedByForcing),
		zap.Duration("elapsed", time.Since(start)))

	return &artifact, nil
}

// Export writes the artifact to path and returns the path written
func (p *Pipeline) Export(a *model.Artifact, path string) (string, error) {
	written, err := RenderJSON(*a, path)
	if err != nil {
		return "", fmt.Errorf("render JSON: %w", err)
	}
	p.logger.Debug("artifact written", zap.String("path", written))
	return written, nil
}

// RunAndExport runs every case and writes the artifact to path only when the
// run succeeded. A failed run leaves path untouched.
func (p *Pipeline) RunAndExport(ctx context.Context, cases []model.Case, path string) (*model.Artifact, string, error) {
	artifact, err := p.Run(ctx, cases)
	if err != nil {
		return nil, "", fmt.Errorf("compare: %w", err)
	}

	written, err := p.Export(artifact, path)
	if err != nil {
		return nil, "", fmt.Errorf("export: %w", err)
	}
	return artifact, written, nil
}
