package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-campaigngen/internal/db"
	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
	"github.com/pgEdge/pgedge-campaigngen/internal/sink"
)

var (
	loadInput        string
	loadDropExisting bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the campaign dataset into PostgreSQL",
	Long: `Create the campaigns table and bulk-load a generated CSV or XLSX file
into it with COPY. Load metadata (source file, row count, run id) is stored
in the campaigngen_metadata table, in the same transaction as the rows.
Loading over existing data fails unless --drop-existing is given.

Example:
  pgedge-campaigngen load --input data/marketing_campaigns.csv --connection "postgres://..."`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadInput, "input", "",
		"file to load (default: data/marketing_campaigns.csv)")
	loadCmd.Flags().BoolVar(&loadDropExisting, "drop-existing", false,
		"drop a previously loaded dataset before loading")
}

func runLoad(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if loadInput != "" {
		cfg.Load.Input = loadInput
	}
	if loadDropExisting {
		cfg.Load.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	records, err := sink.ReadFile(cfg.Load.Input)
	if err != nil {
		return err
	}

	logging.Info().
		Str("file", cfg.Load.Input).
		Int("rows", len(records)).
		Msg("Loading campaign data")

	ctx, cancel := signalContext()
	defer cancel()

	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	result, err := db.LoadCampaigns(ctx, pool, cfg.Load.Input, records, cfg.Load.DropExisting)
	if errors.Is(err, db.ErrAlreadyLoaded) {
		return fmt.Errorf("%w; use --drop-existing to replace it", err)
	}
	if err != nil {
		return err
	}

	if result.Replaced != nil {
		logging.Warn().
			Str("previous", result.Replaced.String()).
			Msg("Replaced previously loaded data")
	}

	logging.Info().
		Int64("rows", result.Rows).
		Str("table", db.CampaignsTable).
		Str("run_id", result.RunID).
		Msg("Campaign data loaded")

	return nil
}
