package pipeline

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ppiankov/kepler/internal/model"
)

// Reporter receives per-case progress from the Engine
type Reporter interface {
	CaseStarted(c model.Case)
	StrategyStarted(c model.Case, s model.Strategy)
	CaseFinished(r *model.ComparisonRecord)
	CaseFailed(c model.Case, err error)
}

// NopReporter discards progress
type NopReporter struct{}

func (NopReporter) CaseStarted(model.Case)                     {}
func (NopReporter) StrategyStarted(model.Case, model.Strategy) {}
func (NopReporter) CaseFinished(*model.ComparisonRecord)       {}
func (NopReporter) CaseFailed(model.Case, error)               {}

var strategyActions = map[model.Strategy]string{
	model.StrategySingleAgent:        "Running single-agent...",
	model.StrategyMultiAgentStandard: "Running multi-agent debate (standard)...",
	model.StrategyMultiAgentForced:   "Running multi-agent debate (forced binary)...",
}

// ConsoleReporter prints progress banners and per-strategy verdicts.
// Calls from concurrent cases are serialized; each call writes whole lines.
type ConsoleReporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewConsoleReporter creates a reporter writing to w
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

// CaseStarted prints the case banner
func (r *ConsoleReporter) CaseStarted(c model.Case) {
	r.mu.Lock()
	defer r.mu.Unlock()

	banner := strings.Repeat("═", 70)
	fmt.Fprintf(r.w, "\n%s\n", banner)
	fmt.Fprintf(r.w, "Processing Case %d: %s...\n", c.ID, preview(c.Claim, 60))
	fmt.Fprintf(r.w, "%s\n", banner)
}

// StrategyStarted prints the strategy being run
func (r *ConsoleReporter) StrategyStarted(c model.Case, s model.Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.w, "  [case %d] %s\n", c.ID, strategyActions[s])
}

// CaseFinished prints the three verdicts
func (r *ConsoleReporter) CaseFinished(rec *model.ComparisonRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.w, "  ✓ [case %d] Single-Agent:            %s\n", rec.ID, verdictLine(rec.SingleAgent))
	fmt.Fprintf(r.w, "  ✓ [case %d] Multi-Agent (Standard):  %s\n", rec.ID, verdictLine(rec.MultiAgentStandard))
	fmt.Fprintf(r.w, "  ✓ [case %d] Multi-Agent (Forced):    %s\n", rec.ID, verdictLine(rec.MultiAgentForced))
	if f := rec.MultiAgentForced; f.IsDebate() && f.ForcedBinaryUsed && f.InitialVerdict != nil {
		fmt.Fprintf(r.w, "    → Forced from: %s\n", strings.ToUpper(string(*f.InitialVerdict)))
	}
}

// CaseFailed prints the failure
func (r *ConsoleReporter) CaseFailed(c model.Case, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.w, "  ✗ %v\n", err)
}

func verdictLine(res model.StrategyResult) string {
	return fmt.Sprintf("%s (%.0f%%)", strings.ToUpper(string(res.Verdict)), res.Confidence.Float())
}

// preview returns at most n runes of s
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
