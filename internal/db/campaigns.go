//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-campaigngen/internal/campaign"
	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
)

// CampaignsTable holds the loaded dataset.
const CampaignsTable = "campaigns"

var campaignsSchemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS campaigns (
    date            DATE NOT NULL,
    channel         TEXT NOT NULL,
    campaign_type   TEXT NOT NULL,
    product         TEXT NOT NULL,
    impressions     BIGINT NOT NULL,
    clicks          BIGINT NOT NULL,
    conversions     BIGINT NOT NULL,
    spend           NUMERIC(12,2) NOT NULL,
    revenue         NUMERIC(12,2) NOT NULL,
    ctr             NUMERIC(12,2) NOT NULL,
    conversion_rate NUMERIC(12,2) NOT NULL,
    cac             NUMERIC(12,2) NOT NULL,
    roas            NUMERIC(12,2) NOT NULL,
    profit          NUMERIC(12,2) NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_campaigns_date ON campaigns (date)`,
	`CREATE INDEX IF NOT EXISTS idx_campaigns_channel ON campaigns (channel)`,
}

// ErrAlreadyLoaded is returned by LoadCampaigns when the database already
// holds campaign data and replace was not requested.
var ErrAlreadyLoaded = errors.New("campaign data is already loaded")

// loadLockKey serializes concurrent loads into the same database.
const loadLockKey int64 = 0x63616d7067656e

// ExistingLoad describes campaign data already present in the database.
type ExistingLoad struct {
	// SourceFile is empty when rows exist without load metadata.
	SourceFile string
	Rows       int64
}

func (e *ExistingLoad) String() string {
	if e.SourceFile == "" {
		return fmt.Sprintf("%d rows without load metadata", e.Rows)
	}
	return fmt.Sprintf("'%s' (%d rows)", e.SourceFile, e.Rows)
}

// LoadResult is the outcome of a successful load.
type LoadResult struct {
	Rows     int64
	RunID    string
	Replaced *ExistingLoad
}

// FindExistingLoad returns the data a previous load left behind, or nil if
// the database holds none. Rows in the campaigns table count as a previous
// load even when the metadata is missing.
func FindExistingLoad(ctx context.Context, q Conn) (*ExistingLoad, error) {
	var existing ExistingLoad

	hasTable, err := tableExists(ctx, q, CampaignsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to check for %s: %w", CampaignsTable, err)
	}
	if hasTable {
		if existing.Rows, err = CountCampaigns(ctx, q); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", CampaignsTable, err)
		}
	}

	hasMetadata, err := MetadataExists(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to check metadata: %w", err)
	}
	if hasMetadata {
		existing.SourceFile, err = GetMetadataValue(ctx, q, KeySourceFile)
		if err != nil && !isNoRows(err) {
			return nil, fmt.Errorf("failed to read metadata: %w", err)
		}
	}

	if existing.SourceFile == "" && existing.Rows == 0 {
		return nil, nil
	}
	return &existing, nil
}

// LoadCampaigns creates the schema, copies records into the campaigns table
// and records the load metadata in a single transaction. If data is already
// present it is dropped when replace is set, otherwise ErrAlreadyLoaded is
// returned and nothing changes.
func LoadCampaigns(ctx context.Context, pool *pgxpool.Pool, sourceFile string, records []campaign.Record, replace bool) (*LoadResult, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", loadLockKey); err != nil {
		return nil, fmt.Errorf("failed to acquire load lock: %w", err)
	}

	existing, err := FindExistingLoad(ctx, tx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !replace {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyLoaded, existing)
		}
		logging.Info().
			Str("previous", existing.String()).
			Msg("Dropping existing schema")
		if err := dropSchema(ctx, tx); err != nil {
			return nil, err
		}
	}

	if err := createSchema(ctx, tx); err != nil {
		return nil, err
	}

	count, err := copyCampaigns(ctx, tx, records)
	if err != nil {
		return nil, err
	}

	runID, err := saveLoadMetadata(ctx, tx, sourceFile, count)
	if err != nil {
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit load: %w", err)
	}

	return &LoadResult{Rows: count, RunID: runID, Replaced: existing}, nil
}

// dropSchema drops the campaigns table and the load metadata.
func dropSchema(ctx context.Context, q Conn) error {
	if _, err := q.Exec(ctx, "DROP TABLE IF EXISTS "+CampaignsTable); err != nil {
		return fmt.Errorf("failed to drop %s: %w", CampaignsTable, err)
	}
	if err := dropMetadata(ctx, q); err != nil {
		return fmt.Errorf("failed to drop %s: %w", metadataTable, err)
	}
	return nil
}

func createSchema(ctx context.Context, q Conn) error {
	for _, stmt := range campaignsSchemaSQL {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

func copyCampaigns(ctx context.Context, tx pgx.Tx, records []campaign.Record) (int64, error) {
	count, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{CampaignsTable},
		campaign.Columns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return copyRow(records[i]), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy campaigns: %w", err)
	}

	logging.Debug().
		Int64("rows", count).
		Msg("Copied campaigns")

	return count, nil
}

// CountCampaigns returns the number of rows in the campaigns table.
func CountCampaigns(ctx context.Context, q Conn) (int64, error) {
	var n int64
	err := q.QueryRow(ctx, "SELECT count(*) FROM "+CampaignsTable).Scan(&n)
	return n, err
}

func copyRow(r campaign.Record) []any {
	return []any{
		r.Date,
		r.Channel,
		r.CampaignType,
		r.Product,
		r.Impressions,
		r.Clicks,
		r.Conversions,
		numeric(r.Spend),
		numeric(r.Revenue),
		numeric(r.CTR),
		numeric(r.ConversionRate),
		numeric(r.CAC),
		numeric(r.ROAS),
		numeric(r.Profit),
	}
}

// numeric converts a decimal to a PostgreSQL NUMERIC without going through
// floating point.
func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
