package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-campaigngen/internal/analysis"
	"github.com/pgEdge/pgedge-campaigngen/internal/db"
	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
)

var analyzeOutputDir string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the analysis queries against the loaded dataset",
	Long: `Run the fixed set of reporting queries against the campaigns table,
print each result, and save it as analysis_<name>.csv in the output
directory. A failing query is reported and the remaining queries still run.

Example:
  pgedge-campaigngen analyze --output-dir data --connection "postgres://..."`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "",
		"directory for result files (default: data)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if analyzeOutputDir != "" {
		cfg.Analyze.OutputDir = analyzeOutputDir
	}

	// Validate configuration
	if err := cfg.ValidateAnalyze(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	md, err := db.LoadInfo(ctx, pool)
	if errors.Is(err, db.ErrNotLoaded) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to read load metadata: %w", err)
	}

	logging.Info().
		Str("source_file", md.SourceFile).
		Int64("rows", md.Rows).
		Str("run_id", md.RunID).
		Time("loaded_at", md.LoadedAt).
		Msg("Running analysis")

	queries := analysis.Queries()
	results, err := analysis.NewRunner(pool, cfg.Analyze.OutputDir, cmd.OutOrStdout()).Run(ctx, queries)
	if err != nil {
		return err
	}

	failed := analysis.Failed(results)
	logging.Info().
		Int("queries", len(results)).
		Int("failed", failed).
		Str("output_dir", cfg.Analyze.OutputDir).
		Msg("Analysis complete")

	if failed == len(queries) {
		return fmt.Errorf("all %d analysis queries failed", failed)
	}
	return nil
}
