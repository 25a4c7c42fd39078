//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-campaigngen.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-campaigngen/internal/campaign"
)

// Output formats accepted by the generate command.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config holds all configuration for pgedge-campaigngen.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`

	// Analyze holds configuration for the analyze subcommand.
	Analyze AnalyzeConfig `mapstructure:"analyze"`

	// Dashboard holds configuration for the dashboard subcommand.
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// GenerateConfig holds configuration for dataset generation.
type GenerateConfig struct {
	// StartDate and EndDate bound the generated range (YYYY-MM-DD, inclusive).
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	// Seed determines every random draw. The same seed reproduces the same file.
	Seed uint64 `mapstructure:"seed"`

	// Output is the path of the generated file.
	Output string `mapstructure:"output"`

	// Format is csv or xlsx. Empty means infer from the output extension.
	Format string `mapstructure:"format"`

	// Workers is the number of days generated concurrently.
	Workers int `mapstructure:"workers"`

	// Channels replaces the built-in channel profiles when non-empty.
	Channels []campaign.ChannelProfile `mapstructure:"channels"`
}

// LoadConfig holds configuration for loading the flat file into PostgreSQL.
type LoadConfig struct {
	// Input is the CSV file to load.
	Input string `mapstructure:"input"`

	// DropExisting drops the campaigns table before loading.
	DropExisting bool `mapstructure:"drop_existing"`
}

// AnalyzeConfig holds configuration for the analysis queries.
type AnalyzeConfig struct {
	// OutputDir receives one CSV file per query.
	OutputDir string `mapstructure:"output_dir"`
}

// DashboardConfig holds configuration for chart rendering.
type DashboardConfig struct {
	// Input is the CSV file to summarize.
	Input string `mapstructure:"input"`

	// OutputDir receives the workbook and the HTML summary.
	OutputDir string `mapstructure:"output_dir"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Generate: GenerateConfig{
			StartDate: "2024-07-01",
			EndDate:   "2025-10-31",
			Seed:      42,
			Output:    filepath.Join("data", "marketing_campaigns.csv"),
			Workers:   1,
		},
		Load: LoadConfig{
			Input: filepath.Join("data", "marketing_campaigns.csv"),
		},
		Analyze: AnalyzeConfig{
			OutputDir: "data",
		},
		Dashboard: DashboardConfig{
			Input:     filepath.Join("data", "marketing_campaigns.csv"),
			OutputDir: "dashboards",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-campaigngen.yaml
// 3. ~/.config/pgedge-campaigngen/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-campaigngen")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-campaigngen"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that a database connection is configured.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if _, _, err := c.Generate.DateRange(); err != nil {
		return err
	}
	if c.Generate.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if _, err := c.Generate.ResolvedFormat(); err != nil {
		return err
	}
	if c.Generate.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if _, err := c.Generate.ProfileTable(); err != nil {
		return err
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Load.Input == "" {
		return fmt.Errorf("input file is required for load")
	}
	return nil
}

// ValidateAnalyze checks configuration required for the analyze command.
func (c *Config) ValidateAnalyze() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Analyze.OutputDir == "" {
		return fmt.Errorf("output directory is required for analyze")
	}
	return nil
}

// ValidateDashboard checks configuration required for the dashboard command.
func (c *Config) ValidateDashboard() error {
	if c.Dashboard.Input == "" {
		return fmt.Errorf("input file is required for dashboard")
	}
	if c.Dashboard.OutputDir == "" {
		return fmt.Errorf("output directory is required for dashboard")
	}
	return nil
}

// DateRange parses the configured start and end dates.
func (g GenerateConfig) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse(campaign.DateLayout, g.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", g.StartDate)
	}
	end, err := time.Parse(campaign.DateLayout, g.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", g.EndDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", g.EndDate, g.StartDate)
	}
	return start, end, nil
}

// ResolvedFormat returns the output format, inferring it from the output
// extension when Format is empty.
func (g GenerateConfig) ResolvedFormat() (string, error) {
	format := strings.ToLower(g.Format)
	if format == "" {
		if strings.EqualFold(filepath.Ext(g.Output), ".xlsx") {
			return FormatXLSX, nil
		}
		return FormatCSV, nil
	}
	if format != FormatCSV && format != FormatXLSX {
		return "", fmt.Errorf("format must be 'csv' or 'xlsx'")
	}
	return format, nil
}

// ProfileTable returns the configured channel profiles, or the built-in
// table when none are configured.
func (g GenerateConfig) ProfileTable() (*campaign.ProfileTable, error) {
	if len(g.Channels) == 0 {
		return campaign.DefaultProfileTable(), nil
	}
	table, err := campaign.NewProfileTable(g.Channels)
	if err != nil {
		return nil, fmt.Errorf("invalid channel configuration: %w", err)
	}
	return table, nil
}
