// Program debate-trace runs one forced-binary debate and prints its transcript.
// Usage: debate-trace "<claim>" "<truth>"
// The provider comes from KEPLER_LLM_PROVIDER (default openai).
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/kepler/internal/debate"
	"github.com/ppiankov/kepler/internal/llm"
	"github.com/ppiankov/kepler/internal/model"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, `usage: debate-trace "<claim>" "<truth>"`)
		os.Exit(2)
	}
	claim, truth := os.Args[1], os.Args[2]

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := model.DefaultConfig().LLM
	if p := os.Getenv("KEPLER_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	cfg.Model = os.Getenv("KEPLER_LLM_MODEL")
	if err := llm.ResolveCredentials(&cfg, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Println("=== Debate Trace ===")
	fmt.Println()
	fmt.Printf("Claim: %s\n", claim)
	fmt.Printf("Truth: %s\n", truth)
	fmt.Println(strings.Repeat("-", 60))

	orchestrator := debate.NewOrchestrator(provider, debate.Config{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}, logger)

	result, err := orchestrator.RunFullDebate(ctx, claim, truth, debate.Options{ForceBinaryIfAmbiguous: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ debate failed: %v\n", err)
		os.Exit(1)
	}

	for _, turn := range result.Transcript {
		label := strings.ToUpper(string(turn.Role))
		if turn.Round > 0 {
			label = fmt.Sprintf("[Round %d] %s", turn.Round, label)
		}
		fmt.Printf("\n%s\n%s\n", label, turn.Content)
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Verdict: %s (%.0f%%)\n", strings.ToUpper(string(result.FinalVerdict)), result.Confidence*100)
	if result.ForcedBinaryUsed && result.InitialVerdict != nil {
		fmt.Printf("  → Forced from: %s\n", strings.ToUpper(string(*result.InitialVerdict)))
	}
	fmt.Printf("Reasoning: %s\n", result.VerdictReasoning)
	fmt.Printf("LLM calls: %d\n", len(result.Transcript))
}
