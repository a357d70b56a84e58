package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/kepler/internal/cache"
	"github.com/ppiankov/kepler/internal/dataset"
	"github.com/ppiankov/kepler/internal/debate"
	"github.com/ppiankov/kepler/internal/llm"
	"github.com/ppiankov/kepler/internal/model"
	"github.com/ppiankov/kepler/internal/pipeline"
	"github.com/ppiankov/kepler/internal/verify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	compareTimeout time.Duration
	noCache        bool
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [num-cases]",
	Short: "Run the three-way comparison and export visualization data",
	Long: `Compare loads the first num-cases usable claim/truth pairs (default 5) and,
for each case in order, runs:
  1. single_agent          one verification call
  2. multi_agent_standard  a full debate; ambiguous verdicts are kept
  3. multi_agent_forced    a full debate forced to faithful/mutated if ambiguous

Any failure aborts the run and no artifact is written.

Example:
  kepler compare
  kepler compare 20 --input data/Kepler.csv --output out/visualization_data.json
  kepler compare 50 --concurrency 4 --llm-provider anthropic`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	defaults := model.DefaultConfig()
	flags := compareCmd.Flags()

	// Input/output flags
	flags.String("input", defaults.Input.Path, "CSV file with claim and truth columns")
	flags.String("output", defaults.Output.Path, "output JSON path")

	// Run flags
	flags.Int("concurrency", defaults.Concurrency.Workers, "number of cases processed in parallel (1 = sequential)")
	flags.Int("rounds", defaults.Debate.Rounds, "debate rounds before the judge")
	flags.DurationVar(&compareTimeout, "timeout", 0, "overall timeout for the run (0 = none)")

	// LLM flags
	flags.String("llm-provider", defaults.LLM.Provider, "LLM provider (openai, anthropic, ollama, gemini)")
	flags.String("llm-model", defaults.LLM.Model, "LLM model name (empty = provider default)")
	flags.Float64("rps", defaults.RateLimiting.RequestsPerSecond, "max LLM requests per second (0 = unlimited)")

	// Cache flags
	flags.BoolVar(&noCache, "no-cache", false, "disable the completion cache (force fresh LLM calls)")
	flags.String("cache-dir", defaults.Cache.Dir, "completion cache directory")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"input.path":                        "input",
		"output.path":                       "output",
		"concurrency.workers":               "concurrency",
		"debate.rounds":                     "rounds",
		"llm.provider":                      "llm-provider",
		"llm.model":                         "llm-model",
		"rate_limiting.requests_per_second": "rps",
		"cache.dir":                         "cache-dir",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if len(args) == 1 {
		n, err := parseCaseCount(args[0])
		if err != nil {
			return err
		}
		cfg.Input.Limit = n
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if compareTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, compareTimeout)
		defer cancel()
	}

	return compare(ctx, cfg, os.Getenv, cmd.ErrOrStderr())
}

// compare runs the whole comparison for cfg and exports the artifact.
// The output file is written only when every case succeeded.
func compare(ctx context.Context, cfg *model.Config, getenv func(string) string, out io.Writer) error {
	// Credentials are checked before any case is loaded
	if err := llm.ResolveCredentials(&cfg.LLM, getenv); err != nil {
		return err
	}

	fmt.Fprintf(out, "🎯 Generating comparison data for %d cases\n\n", cfg.Input.Limit)

	provider, completions, err := buildProvider(cfg, logger)
	if err != nil {
		return err
	}

	loaded, err := dataset.LoadFile(cfg.Input.Path, cfg.Input.Limit)
	if err != nil {
		return fmt.Errorf("load cases: %w", err)
	}
	fmt.Fprintf(out, "📚 Loaded %d cases for comparison\n", len(loaded.Cases))
	if verbose && loaded.Skipped > 0 {
		fmt.Fprintf(out, "   (skipped %d rows with an empty claim or truth)\n", loaded.Skipped)
	}
	logger.Debug("cases loaded",
		zap.String("path", cfg.Input.Path),
		zap.Int("cases", len(loaded.Cases)),
		zap.Int("skipped", loaded.Skipped))

	verifier := verify.NewVerifier(provider, verify.Options{
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	orchestrator := debate.NewOrchestrator(provider, debate.Config{
		Rounds:      cfg.Debate.Rounds,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}, logger)

	if verbose {
		fmt.Fprintf(out, "⚙️  Provider: %s, rounds: %d, concurrency: %d, cache: %v\n",
			provider.Name(), orchestrator.Rounds(), cfg.Concurrency.Workers, cfg.Cache.Enabled)
	}

	engine := pipeline.NewEngine(verifier, orchestrator,
		pipeline.WithReporter(pipeline.NewConsoleReporter(out)),
		pipeline.WithLogger(logger))
	p := pipeline.NewPipeline(engine, cfg.Concurrency.Workers, logger)

	artifact, path, err := p.RunAndExport(ctx, loaded.Cases, cfg.Output.Path)
	if err != nil {
		return err
	}

	printExported(out, path)
	pipeline.RenderSummary(out, *artifact)

	if verbose && completions != nil {
		hits, misses := completions.Stats()
		fmt.Fprintf(out, "Completion cache: %d hits, %d misses\n", hits, misses)
	}
	return nil
}

// parseCaseCount validates the num-cases argument
func parseCaseCount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: num-cases must be a positive integer, got %q", model.ErrConfiguration, arg)
	}
	return n, nil
}

// buildProvider stacks the completion cache over the rate limiter over the
// configured backend. The returned cache is nil when caching is disabled.
func buildProvider(cfg *model.Config, logger *zap.Logger) (llm.Provider, *cache.LayeredCache, error) {
	base, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, nil, fmt.Errorf("create provider: %w", err)
	}

	limiter := llm.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	var provider llm.Provider = llm.NewRateLimitedProvider(base, limiter)

	if !cfg.Cache.Enabled {
		return provider, nil, nil
	}
	completions := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	return llm.NewCachedProvider(provider, completions, cfg.Cache.DiskTTL, cfg.LLM.Model, logger), completions, nil
}

func printExported(w io.Writer, path string) {
	banner := strings.Repeat("═", 70)
	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintf(w, "✅ Comparison data exported to %s\n", path)
	fmt.Fprintf(w, "%s\n", banner)
}
