//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analysis

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
)

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Result is the tabular output of one report.
type Result struct {
	Columns []string
	Rows    [][]string
}

// QueryResult records the outcome of running one report.
type QueryResult struct {
	// QueryName identifies the report.
	QueryName string

	// Duration is how long the query took.
	Duration time.Duration

	// Rows is the number of rows returned.
	Rows int

	// OutputFile is the CSV written for the report.
	OutputFile string

	// Error is set if the report failed.
	Error error
}

// Runner executes reports and saves their results.
type Runner struct {
	db        DB
	outputDir string
	out       io.Writer
}

// NewRunner creates a runner that prints tables to out and writes one CSV
// per report into outputDir.
func NewRunner(db DB, outputDir string, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, outputDir: outputDir, out: out}
}

// Run executes every query in order. A failing report is logged and
// recorded in its QueryResult; the remaining reports still run. Only a
// cancelled context or an unusable output directory stops the run early.
func (r *Runner) Run(ctx context.Context, queries []Query) ([]QueryResult, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", r.outputDir, err)
	}

	results := make([]QueryResult, 0, len(queries))
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := r.runOne(ctx, q)
		if res.Error != nil {
			logging.Error().
				Err(res.Error).
				Str("query", q.Name).
				Msg("Analysis query failed")
		} else {
			logging.Info().
				Str("query", q.Name).
				Int("rows", res.Rows).
				Dur("duration", res.Duration).
				Str("output", res.OutputFile).
				Msg("Analysis query complete")
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, q Query) QueryResult {
	res := QueryResult{QueryName: q.Name}

	start := time.Now()
	table, err := r.Execute(ctx, q)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	res.Rows = len(table.Rows)

	banner := strings.Repeat("=", 70)
	fmt.Fprintf(r.out, "\n%s\n%s\n%s\n", banner, q.Name, banner)
	if err := WriteTable(r.out, table); err != nil {
		res.Error = fmt.Errorf("failed to print results: %w", err)
		return res
	}

	path := filepath.Join(r.outputDir, q.FileName())
	if err := WriteCSVFile(path, table); err != nil {
		res.Error = err
		return res
	}
	res.OutputFile = path
	fmt.Fprintf(r.out, "\nSaved to: %s\n", path)

	return res
}

// Execute runs a single report and returns its formatted result.
func (r *Runner) Execute(ctx context.Context, q Query) (*Result, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	logging.Debug().
		Str("query", q.Name).
		Str("sql", sql).
		Msg("Executing analysis query")

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &Result{Columns: make([]string, len(fields))}
	for i, fd := range fields {
		result.Columns[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = FormatValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return result, nil
}

// Failed returns the number of results that carry an error.
func Failed(results []QueryResult) int {
	n := 0
	for _, r := range results {
		if r.Error != nil {
			n++
		}
	}
	return n
}
