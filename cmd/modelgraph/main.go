// Package main provides the modelgraph CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/modelgraph/internal/config"
	"github.com/matsen/modelgraph/internal/datasource"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// configPath overrides the default config file location
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "modelgraph",
	Short: "Interactive data-model diagram server",
	Long: `modelgraph renders the System Management data model as an interactive
node-link diagram behind a password gate.

Entities and relationships come from the built-in table, a JSONL directory,
or a SQLite cache rebuilt from JSONL. Commands other than serve and render
output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/modelgraph/config.yml)")
	rootCmd.Version = Version
}

// mustLoadConfig loads .env and the config file, exits on error.
func mustLoadConfig() *config.Config {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v\n\n%s", err, config.HelpfulConfigMessage())
	}
	return cfg
}

// newLogger builds the process logger from the logging config.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// mustOpenSource opens the configured data source, exits on error.
// The caller is responsible for calling the returned close function.
func mustOpenSource(cfg *config.Config) (datasource.Source, func() error) {
	src, closeFn, err := datasource.Open(cfg.Source.Kind, cfg.Source.Path)
	if err != nil {
		exitWithError(ExitConfigError, "opening %s source: %v", cfg.Source.Kind, err)
	}
	return src, closeFn
}
