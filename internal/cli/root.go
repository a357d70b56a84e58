package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/kepler/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is the kepler release string
const Version = "kepler v0.1.0"

var (
	cfgFile string
	verbose bool

	// logger is rebuilt for every command in PersistentPreRunE
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kepler",
	Short: "Kepler - single-agent vs multi-agent claim verification comparison",
	Long: `Kepler runs every claim/truth pair of a dataset through three verification
strategies and records how their verdicts differ:

  single_agent          one LLM call decides faithful, mutated or ambiguous
  multi_agent_standard  a prosecutor/defense/epistemologist debate judged at the end
  multi_agent_forced    the same debate, forced to a binary verdict if ambiguous

The comparison is exported as JSON for visualization together with
aggregate statistics. Kepler measures disagreement; it does not decide truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		logger = l.With(zap.String("run_id", uuid.NewString()))
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("config file loaded", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number for Kepler.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.kepler/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	registerDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match KEPLER_* (llm.model -> KEPLER_LLM_MODEL)
	viper.SetEnvPrefix("KEPLER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configDir is ~/.kepler
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".kepler"), nil
}

// registerDefaults makes every config key known to viper so env vars
// override keys that appear in no config file
func registerDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("llm.provider", cfg.LLM.Provider)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	v.SetDefault("llm.timeout", cfg.LLM.Timeout)
	v.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
	v.SetDefault("llm.temperature", cfg.LLM.Temperature)
	v.SetDefault("llm.http_proxy", cfg.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", cfg.LLM.HTTPSProxy)
	v.SetDefault("llm.no_proxy", cfg.LLM.NoProxy)

	v.SetDefault("debate.rounds", cfg.Debate.Rounds)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	v.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("input.path", cfg.Input.Path)
	v.SetDefault("input.limit", cfg.Input.Limit)

	v.SetDefault("output.path", cfg.Output.Path)
	v.SetDefault("output.verbose", cfg.Output.Verbose)
}

// loadConfig resolves the effective configuration from viper
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: decode config: %v", model.ErrConfiguration, err)
	}
	if cfg.Input.Limit <= 0 {
		return nil, fmt.Errorf("%w: input.limit must be positive, got %d", model.ErrConfiguration, cfg.Input.Limit)
	}
	if cfg.Debate.Rounds <= 0 {
		return nil, fmt.Errorf("%w: debate.rounds must be positive, got %d", model.ErrConfiguration, cfg.Debate.Rounds)
	}
	if cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = 1
	}
	return cfg, nil
}

// newLogger builds the structured diagnostics logger (stderr, JSON)
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
