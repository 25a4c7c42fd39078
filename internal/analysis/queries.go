//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package analysis runs the fixed set of reporting queries against the
// loaded campaigns table.
package analysis

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/pgEdge/pgedge-campaigngen/internal/db"
)

// ROAS thresholds used by the underperformer and top-performer reports.
const (
	UnderperformingROAS = 1.5
	TopPerformingROAS   = 2.0
)

const (
	roasExpr           = "ROUND(SUM(revenue) / NULLIF(SUM(spend), 0), 2)"
	conversionRateExpr = "ROUND(SUM(conversions)::numeric / NULLIF(SUM(clicks), 0) * 100, 2)"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Query is one named report.
type Query struct {
	// Name is the report title, also used to derive the output file name.
	Name string

	// Description describes what the report shows.
	Description string

	builder squirrel.SelectBuilder
}

// Slug returns the lower-case name with spaces replaced by underscores.
func (q Query) Slug() string {
	return strings.ReplaceAll(strings.ToLower(q.Name), " ", "_")
}

// FileName returns the CSV file name for the report.
func (q Query) FileName() string {
	return "analysis_" + q.Slug() + ".csv"
}

// ToSql renders the query for PostgreSQL.
func (q Query) ToSql() (string, []interface{}, error) {
	return q.builder.ToSql()
}

// Queries returns the reports in execution order.
func Queries() []Query {
	return []Query{
		{
			Name:        "Overall Performance Summary",
			Description: "Totals and averages across the whole dataset",
			builder: psql.Select(
				"COUNT(DISTINCT date) AS total_days",
				"COUNT(DISTINCT channel) AS total_channels",
				"SUM(impressions) AS total_impressions",
				"SUM(clicks) AS total_clicks",
				"SUM(conversions) AS total_conversions",
				"ROUND(SUM(spend), 2) AS total_spend",
				"ROUND(SUM(revenue), 2) AS total_revenue",
				"ROUND(SUM(revenue) - SUM(spend), 2) AS total_profit",
				"ROUND(AVG(ctr), 2) AS avg_ctr",
				"ROUND(AVG(conversion_rate), 2) AS avg_conversion_rate",
				roasExpr+" AS overall_roas",
			).From(db.CampaignsTable),
		},
		{
			Name:        "Channel Performance Comparison",
			Description: "Per-channel totals for days with conversions, best ROAS first",
			builder: psql.Select(
				"channel",
				"COUNT(*) AS days_active",
				"SUM(impressions) AS impressions",
				"SUM(clicks) AS clicks",
				"SUM(conversions) AS conversions",
				"ROUND(SUM(spend), 2) AS spend",
				"ROUND(SUM(revenue), 2) AS revenue",
				"ROUND(SUM(revenue) - SUM(spend), 2) AS profit",
				"ROUND(SUM(spend) / NULLIF(SUM(conversions), 0), 2) AS cac",
				roasExpr+" AS roas",
				conversionRateExpr+" AS conversion_rate",
			).
				From(db.CampaignsTable).
				Where("conversions > 0").
				GroupBy("channel").
				OrderBy("roas DESC NULLS LAST", "channel"),
		},
		{
			Name:        "Underperforming Campaigns (ROAS < 1.5)",
			Description: "Paid channel and campaign type pairs returning less than 1.5x spend",
			builder: psql.Select(
				"channel",
				"campaign_type",
				"SUM(conversions) AS conversions",
				"ROUND(SUM(spend), 2) AS spend",
				"ROUND(SUM(revenue), 2) AS revenue",
				roasExpr+" AS roas",
				"ROUND(SUM(spend) / (SELECT NULLIF(SUM(spend), 0) FROM "+db.CampaignsTable+") * 100, 2) AS pct_of_total_spend",
			).
				From(db.CampaignsTable).
				Where("spend > 0").
				GroupBy("channel", "campaign_type").
				Having(roasExpr+" < ?", UnderperformingROAS).
				OrderBy("spend DESC", "channel", "campaign_type").
				Limit(10),
		},
		{
			Name:        "Monthly Trend Analysis",
			Description: "Totals per calendar month",
			builder: psql.Select(
				"to_char(date, 'YYYY-MM') AS month",
				"SUM(impressions) AS impressions",
				"SUM(clicks) AS clicks",
				"SUM(conversions) AS conversions",
				"ROUND(SUM(spend), 2) AS spend",
				"ROUND(SUM(revenue), 2) AS revenue",
				roasExpr+" AS roas",
				conversionRateExpr+" AS conversion_rate",
			).
				From(db.CampaignsTable).
				GroupBy("month").
				OrderBy("month"),
		},
		{
			Name:        "Top Performing Campaigns (ROAS > 2.0)",
			Description: "Channel, campaign type and product combinations returning more than 2x spend",
			builder: psql.Select(
				"channel",
				"campaign_type",
				"product",
				"SUM(conversions) AS conversions",
				"ROUND(SUM(spend), 2) AS spend",
				"ROUND(SUM(revenue), 2) AS revenue",
				roasExpr+" AS roas",
			).
				From(db.CampaignsTable).
				Where("spend > 0").
				GroupBy("channel", "campaign_type", "product").
				Having(roasExpr+" > ?", TopPerformingROAS).
				OrderBy("roas DESC", "channel", "campaign_type", "product").
				Limit(15),
		},
	}
}
