package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/kepler/internal/llm"
	"github.com/ppiankov/kepler/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	doctorTimeout time.Duration
	doctorAll     bool
)

// knownProviders is the order doctor reports providers in
var knownProviders = []string{"openai", "anthropic", "gemini", "ollama"}

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check LLM credentials and provider reachability",
	Long: `Doctor checks that the configured LLM provider has its credential set and
answers a lightweight availability request. With --all every supported
provider is checked concurrently.

Example:
  kepler doctor
  kepler doctor --all --timeout 5s`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 15*time.Second, "timeout for all checks")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false, "check every supported provider, not just the configured one")
}

// providerCheck is the outcome of one provider diagnosis
type providerCheck struct {
	Provider   string
	Credential bool
	Reachable  bool
	Detail     string
}

// OK reports whether the provider is ready for a comparison run
func (c providerCheck) OK() bool {
	return c.Credential && c.Reachable
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	names := []string{strings.ToLower(cfg.LLM.Provider)}
	if doctorAll {
		names = knownProviders
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
	defer cancel()

	checks, err := diagnose(ctx, cfg.LLM, names, os.Getenv)
	if err != nil {
		return err
	}
	printChecks(cmd.OutOrStdout(), checks)

	for _, c := range checks {
		if c.Provider == strings.ToLower(cfg.LLM.Provider) && !c.OK() {
			return fmt.Errorf("%w: configured provider %s is not ready: %s", model.ErrConfiguration, c.Provider, c.Detail)
		}
	}
	return nil
}

// diagnose checks each named provider concurrently. Only the configured
// provider keeps base URL and model overrides; the others use their defaults.
func diagnose(ctx context.Context, base model.LLMConfig, names []string, getenv func(string) string) ([]providerCheck, error) {
	checks := make([]providerCheck, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		lc := base
		if !strings.EqualFold(name, base.Provider) {
			lc.BaseURL = ""
			lc.Model = ""
			lc.APIKey = ""
		}
		lc.Provider = name

		g.Go(func() error {
			checks[i] = checkProvider(gctx, lc, getenv)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("doctor: %w", err)
	}
	return checks, nil
}

func checkProvider(ctx context.Context, lc model.LLMConfig, getenv func(string) string) providerCheck {
	check := providerCheck{Provider: lc.Provider}

	if err := llm.ResolveCredentials(&lc, getenv); err != nil {
		check.Detail = err.Error()
		return check
	}
	check.Credential = true

	provider, err := llm.NewProvider(llm.ConfigFromModel(lc))
	if err != nil {
		check.Detail = err.Error()
		return check
	}

	check.Reachable = provider.IsAvailable(ctx)
	if check.Reachable {
		check.Detail = "ok"
	} else {
		check.Detail = "availability request failed"
	}
	return check
}

func printChecks(w io.Writer, checks []providerCheck) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "  Provider Checks")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	for _, c := range checks {
		mark := "✓"
		if !c.OK() {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s %-10s credential=%-5v reachable=%-5v %s\n", mark, c.Provider, c.Credential, c.Reachable, c.Detail)
	}
	fmt.Fprintln(w)
}
