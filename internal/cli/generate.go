package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-campaigngen/internal/campaign"
	"github.com/pgEdge/pgedge-campaigngen/internal/datagen"
	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
	"github.com/pgEdge/pgedge-campaigngen/internal/sink"
)

var (
	generateStart   string
	generateEnd     string
	generateSeed    uint64
	generateOutput  string
	generateFormat  string
	generateWorkers int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the synthetic campaign dataset",
	Long: `Generate one row per day and channel for the configured date range and
write it to a CSV or XLSX file. The same seed always produces the same file,
regardless of the number of workers.

Example:
  pgedge-campaigngen generate --start 2024-07-01 --end 2025-10-31 --seed 42`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateStart, "start", "",
		"first day to generate, YYYY-MM-DD (default: 2024-07-01)")
	generateCmd.Flags().StringVar(&generateEnd, "end", "",
		"last day to generate, YYYY-MM-DD (default: 2025-10-31)")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0,
		"random seed (default: 42)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "",
		"output file (default: data/marketing_campaigns.csv)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "",
		"output format: csv or xlsx (default: from the output extension)")
	generateCmd.Flags().IntVar(&generateWorkers, "workers", 0,
		"number of days generated concurrently (default: 1)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if generateStart != "" {
		cfg.Generate.StartDate = generateStart
	}
	if generateEnd != "" {
		cfg.Generate.EndDate = generateEnd
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generate.Seed = generateSeed
	}
	if generateOutput != "" {
		cfg.Generate.Output = generateOutput
	}
	if generateFormat != "" {
		cfg.Generate.Format = generateFormat
	}
	if generateWorkers > 0 {
		cfg.Generate.Workers = generateWorkers
	}

	// Validate configuration
	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	start, end, err := cfg.Generate.DateRange()
	if err != nil {
		return err
	}
	format, err := cfg.Generate.ResolvedFormat()
	if err != nil {
		return err
	}
	table, err := cfg.Generate.ProfileTable()
	if err != nil {
		return err
	}

	gen, err := campaign.NewGenerator(table, campaign.GeneratorConfig{
		Start:   start,
		End:     end,
		Seed:    cfg.Generate.Seed,
		Workers: cfg.Generate.Workers,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	records, err := gen.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate data: %w", err)
	}

	if err := sink.WriteFile(cfg.Generate.Output, format, records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	event := logging.Info().
		Str("file", cfg.Generate.Output).
		Str("format", format).
		Int("rows", len(records))
	if info, err := os.Stat(cfg.Generate.Output); err == nil {
		event = event.Str("size", datagen.FormatSize(info.Size()))
	}
	event.Msg("Campaign data written")

	return printGenerateSummary(cmd.OutOrStdout(), records, cfg.Generate.Output)
}
