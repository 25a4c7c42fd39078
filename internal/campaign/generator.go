//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package campaign

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pgEdge/pgedge-campaigngen/internal/datagen"
	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
)

// DefaultJitter is the revenue noise applied to conversions x order value.
var DefaultJitter = Range{Min: 0.9, Max: 1.1}

// GeneratorConfig configures a generation run.
type GeneratorConfig struct {
	// Start and End are the first and last day (inclusive).
	Start time.Time
	End   time.Time

	// Seed determines every random draw of the run.
	Seed uint64

	// Workers is the number of days generated concurrently (default 1).
	// Output does not depend on it.
	Workers int

	// Jitter overrides DefaultJitter when non-zero.
	Jitter Range

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64
}

// Generator produces campaign records from a profile table.
type Generator struct {
	table     *ProfileTable
	cfg       GeneratorConfig
	newSource func(seed uint64) datagen.Source
}

// NewGenerator creates a generator for the given table and run configuration.
func NewGenerator(table *ProfileTable, cfg GeneratorConfig) (*Generator, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("at least one channel profile is required")
	}
	cfg.Start = truncateDay(cfg.Start)
	cfg.End = truncateDay(cfg.End)
	if cfg.End.Before(cfg.Start) {
		return nil, fmt.Errorf("end date %s is before start date %s",
			cfg.End.Format(DateLayout), cfg.Start.Format(DateLayout))
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Jitter == (Range{}) {
		cfg.Jitter = DefaultJitter
	}
	if cfg.Jitter.Min < 0 || cfg.Jitter.Max < cfg.Jitter.Min {
		return nil, fmt.Errorf("invalid jitter range [%g, %g]", cfg.Jitter.Min, cfg.Jitter.Max)
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 1000
	}

	return &Generator{
		table: table,
		cfg:   cfg,
		newSource: func(seed uint64) datagen.Source {
			return datagen.NewFakerWithSeed(seed)
		},
	}, nil
}

// Rows returns the number of records Generate will produce.
func (g *Generator) Rows() int {
	return Days(g.cfg.Start, g.cfg.End) * g.table.Len()
}

// Generate produces one record per (date, channel), ordered by date and then
// by channel in table order. Each day draws from its own stream seeded from
// the run seed and the day index.
func (g *Generator) Generate(ctx context.Context) ([]Record, error) {
	days := Days(g.cfg.Start, g.cfg.End)

	logging.Info().
		Str("start", g.cfg.Start.Format(DateLayout)).
		Str("end", g.cfg.End.Format(DateLayout)).
		Int("days", days).
		Int("channels", g.table.Len()).
		Int("rows", days*g.table.Len()).
		Uint64("seed", g.cfg.Seed).
		Int("workers", g.cfg.Workers).
		Msg("Generating campaign data")

	progress := datagen.NewProgressReporter("campaigns", int64(g.Rows()), g.cfg.ProgressInterval)
	byDay := make([][]Record, days)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for i := 0; i < days; i++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			day := g.cfg.Start.AddDate(0, 0, i)
			src := g.newSource(datagen.SplitSeed(g.cfg.Seed, uint64(i)))
			byDay[i] = g.GenerateDay(src, day)
			progress.Update(int64(len(byDay[i])))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("generation interrupted: %w", err)
	}

	records := make([]Record, 0, g.Rows())
	for _, recs := range byDay {
		records = append(records, recs...)
	}
	progress.Done()

	return records, nil
}

// GenerateDay produces the records for a single day, in channel order,
// drawing from src.
func (g *Generator) GenerateDay(src datagen.Source, day time.Time) []Record {
	day = truncateDay(day)
	seasonal := SeasonalMultiplier(day.Month())
	weekend := WeekendMultiplier(day.Weekday())

	records := make([]Record, 0, g.table.Len())
	for _, p := range g.table.profiles {
		records = append(records, g.record(src, day, p, seasonal, weekend))
	}
	return records
}

func (g *Generator) record(src datagen.Source, day time.Time, p ChannelProfile, seasonal, weekend float64) Record {
	s := p.Draw(src)

	impressions := int64(float64(s.Impressions) * seasonal * weekend)
	clicks := int64(float64(s.Clicks) * seasonal * weekend)
	conversions := int64(float64(s.Conversions) * seasonal * weekend)
	spend := s.Spend * seasonal * weekend

	revenue := float64(conversions) * s.AvgOrderValue * g.cfg.Jitter.draw(src)

	rec := Record{
		Date:         day,
		Channel:      p.Name,
		CampaignType: datagen.Choose(src, CampaignTypes),
		Product:      datagen.Choose(src, Products),
		Impressions:  impressions,
		Clicks:       clicks,
		Conversions:  conversions,
		Spend:        Money(spend),
		Revenue:      Money(revenue),
	}
	return Derive(rec)
}
