package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"optivet/internal/config"
	"optivet/internal/pipeline"
	"optivet/internal/types"
)

var (
	analysisPath string
	languageFlag string
	prettyOutput bool
)

// validateCmd runs the full validation pipeline over one or more raw
// model outputs against a single original file.
var validateCmd = &cobra.Command{
	Use:   "validate [original-file] [raw-output-file]...",
	Short: "Validate model-generated rewrites against the original code",
	Long: `Runs each raw output through the validation pipeline:
  1. Extract the candidate code (JSON envelope, fenced block, or raw text)
  2. Detect truncation and repair unbalanced brackets
  3. Reject candidates that dropped content or named elements
  4. Reject candidates too dissimilar to be a faithful rewrite

Each candidate yields one result record; rejected candidates carry the
original code and a rejection reason. Multiple raw outputs are validated
concurrently.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&analysisPath, "analysis", "", "path to static-analysis JSON")
	validateCmd.Flags().StringVar(&languageFlag, "language", "", "language override")
	validateCmd.Flags().BoolVar(&prettyOutput, "pretty", false, "indent JSON output")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	original, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read original: %w", err)
	}

	var analysis types.StaticAnalysis
	if analysisPath != "" {
		data, err := os.ReadFile(analysisPath)
		if err != nil {
			return fmt.Errorf("failed to read analysis: %w", err)
		}
		if err := json.Unmarshal(data, &analysis); err != nil {
			return fmt.Errorf("failed to parse analysis: %w", err)
		}
	}

	p := pipeline.New(cfg, pipeline.WithLogger(logger))

	rawPaths := args[1:]
	results := make([]types.OptimizationResult, len(rawPaths))

	var g errgroup.Group
	for i, path := range rawPaths {
		i, path := i, path
		g.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			results[i] = p.Normalize(string(raw), string(original), analysis, languageFlag)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return emitJSON(cmd, results)
}

func emitJSON(cmd *cobra.Command, results []types.OptimizationResult) error {
	var out interface{} = results
	if len(results) == 1 {
		out = results[0]
	}

	var data []byte
	var err error
	if prettyOutput {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// versionCmd reports the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the optivet version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "optivet", version)
	},
}

var version = "0.3.0"
