//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dashboard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pgEdge/pgedge-campaigngen/internal/campaign"
	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
)

// Output file names inside the dashboard directory.
const (
	WorkbookFile = "campaign_dashboard.xlsx"
	SummaryFile  = "summary.html"
)

// Files lists the paths written by Render.
type Files struct {
	Workbook string
	Summary  string
}

// Render aggregates records and writes the workbook and HTML summary into
// outputDir.
func Render(records []campaign.Record, outputDir string) (*Files, error) {
	data, err := Build(records)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	files := &Files{
		Workbook: filepath.Join(outputDir, WorkbookFile),
		Summary:  filepath.Join(outputDir, SummaryFile),
	}

	if err := WriteWorkbook(files.Workbook, data); err != nil {
		return nil, err
	}
	logging.Info().Str("file", files.Workbook).Msg("Created workbook")

	if err := os.WriteFile(files.Summary, SummaryHTML(data), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", files.Summary, err)
	}
	logging.Info().Str("file", files.Summary).Msg("Created summary")

	return files, nil
}
