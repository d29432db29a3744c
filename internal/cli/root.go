package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/arcaxh/internal/cache"
	"github.com/ppiankov/arcaxh/internal/lexicon"
	"github.com/ppiankov/arcaxh/internal/logging"
	"github.com/ppiankov/arcaxh/internal/model"
	"github.com/ppiankov/arcaxh/internal/translator"
)

const version = "arcaxh v0.1.0"

var (
	cfgFile     string
	verbose     bool
	lexiconPath string
	noCache     bool
	logFormat   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "arcaxh",
	Short: "Arcaxh - gloss Arcaxh text into English",
	Long: `Arcaxh glosses text written in the constructed language Arcaxh.

Every word is looked up in the vocabulary first. Unknown words are broken
down into a known prefix and/or suffix, each shown with its meaning:

  velorin  ->  velorin: (vel [important person/role])-(in [person])

Words matching nothing are passed through unchanged.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := model.DefaultConfig()

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.arcaxh/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&lexiconPath, "lexicon", "", "YAML lexicon file (default: built-in lexicon)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable memoization of word analyses")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", defaults.Output.LogFormat, "log format (text, json)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// bindFlags binds flags to their config keys. Subcommand flags are defined
// in their own files, so binding waits until every init has run.
func bindFlags() {
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("lexicon.path", rootCmd.PersistentFlags().Lookup("lexicon"))
	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.max_conns", serveCmd.Flags().Lookup("max-conns"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	bindFlags()
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.arcaxh")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match ARCAXH_* (nested keys use _)
	viper.SetEnvPrefix("ARCAXH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key with viper so environment
// variables can override keys absent from the config file
func setDefaults(d *model.Config) {
	viper.SetDefault("lexicon.path", d.Lexicon.Path)
	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("cache.ttl", d.Cache.TTL)
	viper.SetDefault("cache.cleanup_interval", d.Cache.CleanupInterval)
	viper.SetDefault("concurrency.workers", d.Concurrency.Workers)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.max_conns", d.Server.MaxConns)
	viper.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	viper.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	viper.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	viper.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	viper.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	viper.SetDefault("rate_limiting.requests_per_second", d.RateLimiting.RequestsPerSecond)
	viper.SetDefault("rate_limiting.burst_size", d.RateLimiting.BurstSize)
	viper.SetDefault("output.verbose", d.Output.Verbose)
	viper.SetDefault("output.log_format", d.Output.LogFormat)
}

// loadConfig merges defaults, config file, environment and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if noCache {
		cfg.Cache.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger writing to stderr
func newLogger(cfg *model.Config) (*slog.Logger, error) {
	return logging.New(os.Stderr, cfg.Output.LogFormat, cfg.Output.Verbose)
}

// loadLexicon reads the configured lexicon file, or returns the built-in one
func loadLexicon(cfg *model.Config) (*lexicon.Lexicon, error) {
	if cfg.Lexicon.Path == "" {
		return lexicon.Default(), nil
	}
	lex, err := lexicon.LoadFile(cfg.Lexicon.Path)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return lex, nil
}

// newCache returns the analysis memo, or nil when caching is disabled in
// cfg or memoize is false
func newCache(cfg *model.Config, memoize bool) *cache.MemoryCache {
	if !memoize || !cfg.Cache.Enabled {
		return nil
	}
	return cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
}

// setup loads config, logger, lexicon and translator for a command.
// memoize is false for long-running commands fed by untrusted input, where a
// per-word memo would grow with every distinct token received.
func setup(memoize bool) (*model.Config, *slog.Logger, *translator.Translator, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	lex, err := loadLexicon(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	stats := lex.Stats()
	logger.Debug("lexicon loaded",
		"path", cfg.Lexicon.Path,
		"prefixes", stats.Prefixes,
		"suffixes", stats.Suffixes,
		"vocabulary", stats.Vocabulary,
	)

	opts := []translator.Option{translator.WithLogger(logger)}
	if mem := newCache(cfg, memoize); mem != nil {
		opts = append(opts, translator.WithCache(mem, cfg.Cache.TTL))
	}

	return cfg, logger, translator.New(lex, opts...), nil
}
