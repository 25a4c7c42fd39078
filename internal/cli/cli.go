//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-campaigngen.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-campaigngen/internal/config"
	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
	"github.com/pgEdge/pgedge-campaigngen/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-campaigngen",
		Short: "Synthetic marketing campaign dataset generator for PostgreSQL",
		Long: `pgedge-campaigngen generates a reproducible synthetic dataset of daily
marketing campaign performance (one row per day and channel), writes it to a
CSV or XLSX file, loads it into PostgreSQL, runs a fixed set of analysis
queries, and renders a dashboard workbook with charts.

The dataset is fake. It is intended for demos, tutorials and testing
reporting pipelines, not for modelling real marketing performance.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-campaigngen.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(channelsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var channelsCmd = &cobra.Command{
	Use:   "channels [name...]",
	Short: "List the channel profiles used for generation",
	Long: `List the marketing channels and the daily ranges each one is drawn
from. Profiles come from the generate.channels section of the config file,
or the built-in table when that section is absent. Pass channel names to
show only those channels.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := cfg.Generate.ProfileTable()
		if err != nil {
			return err
		}
		profiles, err := selectProfiles(table, args)
		if err != nil {
			return err
		}
		return printProfiles(cmd.OutOrStdout(), profiles)
	},
}
