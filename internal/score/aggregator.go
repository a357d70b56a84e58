// Package score aggregates comparison records into run statistics.
package score

import (
	"github.com/ppiankov/kepler/internal/model"
)

// Summarize computes the statistics block over every record of a run.
// Averages are taken over the per-case percentages and rounded to one decimal.
func Summarize(records []model.ComparisonRecord) (model.Summary, error) {
	var summary model.Summary

	if len(records) == 0 {
		return summary, model.ErrNoRecords
	}

	for _, s := range model.Strategies() {
		avg, err := averageConfidence(records, s)
		if err != nil {
			return model.Summary{}, err
		}
		summary.AverageConfidence.Set(s, avg)

		if err := tallyVerdicts(records, s, summary.VerdictDistribution.For(s)); err != nil {
			return model.Summary{}, err
		}
	}

	summary.ForcedBinaryStats = forcedBinaryStats(records)
	summary.Agreement = agreement(records)

	return summary, nil
}

// averageConfidence returns the mean percentage confidence of strategy s
func averageConfidence(records []model.ComparisonRecord, s model.Strategy) (model.Percent, error) {
	var sum float64
	for i := range records {
		res, ok := records[i].Result(s)
		if !ok {
			return 0, model.NewCaseError(records[i].ID, s, model.ErrSchemaViolation, model.SchemaViolation("unknown strategy"))
		}
		sum += res.Confidence.Float()
	}
	return model.RoundPercent(sum / float64(len(records))), nil
}

// tallyVerdicts counts strategy s's verdicts into counts
func tallyVerdicts(records []model.ComparisonRecord, s model.Strategy, counts *model.VerdictCounts) error {
	for i := range records {
		res, _ := records[i].Result(s)
		if err := counts.Add(res.Verdict); err != nil {
			return model.NewCaseError(records[i].ID, s, model.ErrSchemaViolation, err)
		}
	}
	return nil
}

func forcedBinaryStats(records []model.ComparisonRecord) model.ForcedBinaryStats {
	var stats model.ForcedBinaryStats
	for i := range records {
		forced := records[i].MultiAgentForced
		if forced.DebateDetail != nil && forced.ForcedBinaryUsed {
			stats.TotalForced++
		}
		if records[i].Comparison.ForcedChangedVerdict {
			stats.VerdictChangedByForcing++
		}
	}
	return stats
}

func agreement(records []model.ComparisonRecord) model.AgreementStats {
	var stats model.AgreementStats
	for i := range records {
		c := records[i].Comparison
		if c.SingleVsStandard {
			stats.SingleVsStandard++
		}
		if c.SingleVsForced {
			stats.SingleVsForced++
		}
		if c.StandardVsForced {
			stats.StandardVsForced++
		}
	}
	return stats
}
