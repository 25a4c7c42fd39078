//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
	"github.com/pgEdge/pgedge-campaigngen/pkg/version"
)

const metadataTable = "campaigngen_metadata"

// Metadata keys written by a load.
const (
	KeySourceFile = "source_file"
	KeyRows       = "rows"
	KeyRunID      = "run_id"
	KeyVersion    = "version"
	KeyLoadedAt   = "loaded_at"
)

// ErrNotLoaded is returned by LoadInfo when no dataset has been loaded.
var ErrNotLoaded = errors.New("no campaign data has been loaded; run 'pgedge-campaigngen load' first")

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS campaigngen_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// LoadMetadata describes the last completed load.
type LoadMetadata struct {
	SourceFile string
	Rows       int64
	RunID      string
	Version    string
	LoadedAt   time.Time
}

// saveLoadMetadata records a load and returns its run id.
func saveLoadMetadata(ctx context.Context, q Conn, sourceFile string, rows int64) (string, error) {
	// Create table if it doesn't exist
	_, err := q.Exec(ctx, createMetadataTableSQL)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata table: %w", err)
	}

	runID := uuid.NewString()
	metadata := map[string]string{
		KeySourceFile: sourceFile,
		KeyRows:       strconv.FormatInt(rows, 10),
		KeyRunID:      runID,
		KeyVersion:    version.Short(),
		KeyLoadedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	for key, value := range metadata {
		_, err := q.Exec(ctx, `
            INSERT INTO campaigngen_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return "", fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("source_file", sourceFile).
		Int64("rows", rows).
		Str("run_id", runID).
		Msg("Saved metadata")

	return runID, nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, q Conn, key string) (string, error) {
	var value string
	err := q.QueryRow(ctx, `
        SELECT value FROM campaigngen_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, q Conn) (map[string]string, error) {
	rows, err := q.Query(ctx, `SELECT key, value FROM campaigngen_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// LoadInfo returns the metadata of the last load, or ErrNotLoaded.
func LoadInfo(ctx context.Context, q Conn) (*LoadMetadata, error) {
	exists, err := MetadataExists(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to check metadata: %w", err)
	}
	if !exists {
		return nil, ErrNotLoaded
	}

	values, err := GetAllMetadata(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	return parseLoadMetadata(values)
}

func parseLoadMetadata(values map[string]string) (*LoadMetadata, error) {
	if values[KeyRunID] == "" {
		return nil, ErrNotLoaded
	}

	md := &LoadMetadata{
		SourceFile: values[KeySourceFile],
		RunID:      values[KeyRunID],
		Version:    values[KeyVersion],
	}
	if v := values[KeyRows]; v != "" {
		rows, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s metadata %q: %w", KeyRows, v, err)
		}
		md.Rows = rows
	}
	if v := values[KeyLoadedAt]; v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s metadata %q: %w", KeyLoadedAt, v, err)
		}
		md.LoadedAt = t
	}
	return md, nil
}

// dropMetadata drops the metadata table.
func dropMetadata(ctx context.Context, q Conn) error {
	_, err := q.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, q Conn) (bool, error) {
	return tableExists(ctx, q, metadataTable)
}

func tableExists(ctx context.Context, q Conn, table string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = current_schema() AND table_name = $1
        )
    `, table).Scan(&exists)
	return exists, err
}

// isNoRows reports whether err means the queried metadata key is absent.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
