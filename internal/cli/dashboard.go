package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-campaigngen/internal/dashboard"
	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
	"github.com/pgEdge/pgedge-campaigngen/internal/sink"
)

var (
	dashboardInput     string
	dashboardOutputDir string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render dashboard charts from the dataset",
	Long: `Aggregate a generated file and write campaign_dashboard.xlsx (one sheet
per chart: channel ROAS, monthly revenue vs spend, conversion funnel, budget
allocation) and summary.html into the output directory. No database is needed.

Example:
  pgedge-campaigngen dashboard --input data/marketing_campaigns.csv --output-dir dashboards`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardInput, "input", "",
		"file to summarize (default: data/marketing_campaigns.csv)")
	dashboardCmd.Flags().StringVar(&dashboardOutputDir, "output-dir", "",
		"directory for dashboard files (default: dashboards)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if dashboardInput != "" {
		cfg.Dashboard.Input = dashboardInput
	}
	if dashboardOutputDir != "" {
		cfg.Dashboard.OutputDir = dashboardOutputDir
	}

	// Validate configuration
	if err := cfg.ValidateDashboard(); err != nil {
		return err
	}

	records, err := sink.ReadFile(cfg.Dashboard.Input)
	if err != nil {
		return err
	}

	logging.Info().
		Str("file", cfg.Dashboard.Input).
		Int("rows", len(records)).
		Msg("Creating dashboard")

	files, err := dashboard.Render(records, cfg.Dashboard.OutputDir)
	if err != nil {
		return err
	}

	cmd.Printf("Dashboard written to %s\n", cfg.Dashboard.OutputDir)
	cmd.Printf("  %s\n", files.Workbook)
	cmd.Printf("  %s\n", files.Summary)
	return nil
}
