package model

// StrategyResult is the normalized per-strategy outcome for one case.
// The core fields are shared by every strategy; Debate is non-nil only for
// the multi-agent strategies.
type StrategyResult struct {
	Strategy      Strategy `json:"-"`
	Verdict       Verdict  `json:"verdict"`
	Confidence    Percent  `json:"confidence"`
	Reasoning     string   `json:"reasoning"`
	MutationTypes []string `json:"mutation_types"`
	LLMCalls      int      `json:"llm_calls"` // Collaborator calls spent on this result

	*DebateDetail
}

// IsDebate reports whether the result carries multi-agent extension data
func (r StrategyResult) IsDebate() bool {
	return r.DebateDetail != nil
}

// ForcedChange reports whether forced-binary resolution replaced the debate's initial verdict
func (r StrategyResult) ForcedChange() bool {
	if r.DebateDetail == nil || !r.ForcedBinaryUsed || r.InitialVerdict == nil {
		return false
	}
	return *r.InitialVerdict != r.Verdict
}

// DebateDetail holds the multi-agent specific part of a StrategyResult
type DebateDetail struct {
	TranscriptLength int        `json:"transcript_length"`
	Agents           AgentPanel `json:"agents"`
	ForcedBinaryUsed bool       `json:"forced_binary_used"`
	InitialVerdict   *Verdict   `json:"initial_verdict"` // nil unless forcing occurred
}

// AgentPanel groups the per-role round history of one debate
type AgentPanel struct {
	Prosecutor     ArgumentTrack       `json:"prosecutor"`
	Defense        ArgumentTrack       `json:"defense"`
	Epistemologist EpistemologistTrack `json:"epistemologist"`
}

// ArgumentTrack is the round history of an arguing role (prosecutor or defense)
type ArgumentTrack struct {
	AllRounds       []ArgumentRound `json:"all_rounds"`
	FinalArguments  []string        `json:"final_arguments"`
	FinalConfidence Percent         `json:"final_confidence"`
}

// ArgumentRound is one round snapshot of an arguing role
type ArgumentRound struct {
	Round      int      `json:"round"`     // 1-based
	Arguments  []string `json:"arguments"` // Accusation explanations or counter arguments
	Confidence Percent  `json:"confidence"`
}

// EpistemologistTrack is the round history of the epistemologist
type EpistemologistTrack struct {
	AllRounds        []EpistemologistRound `json:"all_rounds"`
	FinalUncertainty string                `json:"final_uncertainty"`
	FinalConfidence  Percent               `json:"final_confidence"`
}

// EpistemologistRound is one epistemologist round snapshot
type EpistemologistRound struct {
	Round           int      `json:"round"`
	KeyUncertainty  string   `json:"key_uncertainty"`
	VerifiableFacts []string `json:"verifiable_facts"`
	Confidence      Percent  `json:"confidence"` // Upper bound of the recommended confidence range
}
