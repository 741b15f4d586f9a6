package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"optivet/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "optivet",
	Short: "optivet - validation gate for model-generated code rewrites",
	Long: `optivet decides whether a model-generated rewrite of a source snippet
is safe to present as a replacement for the original.

Candidates are extracted from raw model output, repaired when truncated
mid-structure, and checked for dropped content, dropped named elements,
and hallucinated rewrites. A rejected candidate falls back to the
original code with a recorded reason; nothing is ever silently
corrupted. A separate diff command renders the line-level difference
between any two files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(logLevel(cfg.Logging.Level, verbose))
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// logLevel resolves the zap level: --verbose wins, otherwise the
// configured level; anything unparseable falls back to info.
func logLevel(configured string, verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	if lvl, err := zapcore.ParseLevel(configured); err == nil {
		return lvl
	}
	return zapcore.InfoLevel
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to optivet config (or set OPTIVET_CONFIG)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
