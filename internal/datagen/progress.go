// Package datagen provides data generation utilities for pgedge-campaigngen.
package datagen

import (
	"fmt"
	"sync/atomic"

	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
)

// ProgressReporter tracks and reports data generation progress. Update may
// be called from several goroutines.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       atomic.Int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	if interval < 1 {
		interval = 1
	}
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update updates the progress and logs if necessary.
func (p *ProgressReporter) Update(rows int64) {
	current := p.currentRow.Add(rows)
	old := current - rows

	// Check if we crossed a progress interval
	if current/p.progressInterval > old/p.progressInterval {
		var pct float64
		if p.totalRows > 0 {
			pct = float64(current) / float64(p.totalRows) * 100
		}
		logging.Info().
			Str("table", p.tableName).
			Int64("rows", current).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Generating data")
	}
}

// rows returns the number of rows reported so far.
func (p *ProgressReporter) rows() int64 {
	return p.currentRow.Load()
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("table", p.tableName).
		Int64("rows", p.rows()).
		Msg("Table complete")
}

// FormatSize formats a byte count as a human-readable string.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
