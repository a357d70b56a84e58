package model

// ComparisonRecord is the unified result of running one case through all strategies
type ComparisonRecord struct {
	Case

	SingleAgent        StrategyResult `json:"single_agent"`
	MultiAgentStandard StrategyResult `json:"multi_agent_standard"`
	MultiAgentForced   StrategyResult `json:"multi_agent_forced"`

	Comparison Comparison `json:"comparison"`
}

// Result returns the record's result for the given strategy
func (r *ComparisonRecord) Result(s Strategy) (StrategyResult, bool) {
	switch s {
	case StrategySingleAgent:
		return r.SingleAgent, true
	case StrategyMultiAgentStandard:
		return r.MultiAgentStandard, true
	case StrategyMultiAgentForced:
		return r.MultiAgentForced, true
	default:
		return StrategyResult{}, false
	}
}

// Comparison holds the derived cross-strategy flags of a record
type Comparison struct {
	SingleVsStandard     bool `json:"sa_vs_ma_standard"`
	SingleVsForced       bool `json:"sa_vs_ma_forced"`
	StandardVsForced     bool `json:"ma_standard_vs_forced"`
	ForcedChangedVerdict bool `json:"forced_changed_verdict"`
}

// Compare derives agreement flags from the three normalized results.
// Agreement is exact verdict equality; confidence is ignored.
func Compare(single, standard, forced StrategyResult) Comparison {
	return Comparison{
		SingleVsStandard:     single.Verdict == standard.Verdict,
		SingleVsForced:       single.Verdict == forced.Verdict,
		StandardVsForced:     standard.Verdict == forced.Verdict,
		ForcedChangedVerdict: forced.ForcedChange(),
	}
}

// Summary is the aggregate view over every ComparisonRecord of a run
type Summary struct {
	AverageConfidence   StrategyPercents      `json:"average_confidence"`
	VerdictDistribution StrategyDistributions `json:"verdict_distribution"`
	ForcedBinaryStats   ForcedBinaryStats     `json:"forced_binary_stats"`
	Agreement           AgreementStats        `json:"agreement"`
}

// StrategyPercents holds one percentage per strategy
type StrategyPercents struct {
	SingleAgent        Percent `json:"single_agent"`
	MultiAgentStandard Percent `json:"multi_agent_standard"`
	MultiAgentForced   Percent `json:"multi_agent_forced"`
}

// Set assigns the value for strategy s
func (p *StrategyPercents) Set(s Strategy, v Percent) {
	switch s {
	case StrategySingleAgent:
		p.SingleAgent = v
	case StrategyMultiAgentStandard:
		p.MultiAgentStandard = v
	case StrategyMultiAgentForced:
		p.MultiAgentForced = v
	}
}

// StrategyDistributions holds verdict counts per strategy
type StrategyDistributions struct {
	SingleAgent        VerdictCounts `json:"single_agent"`
	MultiAgentStandard VerdictCounts `json:"multi_agent_standard"`
	MultiAgentForced   VerdictCounts `json:"multi_agent_forced"`
}

// For returns a pointer to the counts of strategy s
func (d *StrategyDistributions) For(s Strategy) *VerdictCounts {
	switch s {
	case StrategySingleAgent:
		return &d.SingleAgent
	case StrategyMultiAgentStandard:
		return &d.MultiAgentStandard
	case StrategyMultiAgentForced:
		return &d.MultiAgentForced
	default:
		return nil
	}
}

// VerdictCounts is an exact tally over the three allowed verdicts
type VerdictCounts struct {
	Faithful  int `json:"faithful"`
	Mutated   int `json:"mutated"`
	Ambiguous int `json:"ambiguous"`
}

// Add counts one verdict; unknown verdicts are a schema violation
func (c *VerdictCounts) Add(v Verdict) error {
	switch v {
	case VerdictFaithful:
		c.Faithful++
	case VerdictMutated:
		c.Mutated++
	case VerdictAmbiguous:
		c.Ambiguous++
	default:
		return SchemaViolation("unknown verdict %q", string(v))
	}
	return nil
}

// Total returns the number of counted verdicts
func (c VerdictCounts) Total() int {
	return c.Faithful + c.Mutated + c.Ambiguous
}

// ForcedBinaryStats summarizes forced-binary usage and impact
type ForcedBinaryStats struct {
	TotalForced             int `json:"total_forced"`
	VerdictChangedByForcing int `json:"verdict_changed_by_forcing"`
}

// AgreementStats counts cases where each strategy pair reached the same verdict
type AgreementStats struct {
	SingleVsStandard int `json:"sa_vs_ma_standard"`
	SingleVsForced   int `json:"sa_vs_ma_forced"`
	StandardVsForced int `json:"ma_standard_vs_forced"`
}

// Metadata describes an exported artifact
type Metadata struct {
	TotalCases  int        `json:"total_cases"`
	Systems     []Strategy `json:"systems"`
	Description string     `json:"description"`
}

// ArtifactDescription is the fixed description written into every artifact
const ArtifactDescription = "Three-way comparison: Single-agent vs Multi-agent (allows ambiguous) vs Multi-agent (forced binary)"

// Artifact is the complete persisted comparison document
type Artifact struct {
	Metadata   Metadata           `json:"metadata"`
	Cases      []ComparisonRecord `json:"cases"`
	Statistics Summary            `json:"statistics"`
}
