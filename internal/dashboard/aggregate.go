//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dashboard aggregates the campaign dataset into chart-ready tables
// and renders them as an XLSX workbook with native charts and an HTML
// summary page.
package dashboard

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-campaigngen/internal/campaign"
)

// Band classifies a channel's return on ad spend.
type Band string

// ROAS bands. Channels without spend have no meaningful ROAS.
const (
	BandRed    Band = "red"
	BandYellow Band = "yellow"
	BandGreen  Band = "green"
	BandUnpaid Band = "unpaid"
)

var (
	redBelow    = decimal.NewFromFloat(1.5)
	yellowBelow = decimal.NewFromFloat(2.0)
	hundred     = decimal.NewFromInt(100)
)

// BandFor returns the band for a channel with the given spend and ROAS:
// red below 1.5, yellow below 2.0, green otherwise.
func BandFor(spend, roas decimal.Decimal) Band {
	switch {
	case spend.IsZero():
		return BandUnpaid
	case roas.LessThan(redBelow):
		return BandRed
	case roas.LessThan(yellowBelow):
		return BandYellow
	default:
		return BandGreen
	}
}

// ChannelPerformance is one bar of the channel ROAS chart.
type ChannelPerformance struct {
	Channel     string
	Spend       decimal.Decimal
	Revenue     decimal.Decimal
	Conversions int64
	ROAS        decimal.Decimal
	Band        Band
}

// MonthlyTrend is one point of the revenue vs spend chart.
type MonthlyTrend struct {
	Month       string
	Spend       decimal.Decimal
	Revenue     decimal.Decimal
	Conversions int64
}

// FunnelStage is one stage of the conversion funnel.
type FunnelStage struct {
	Stage            string
	Value            int64
	PercentOfInitial decimal.Decimal
}

// BudgetShare is one slice of the budget allocation chart.
type BudgetShare struct {
	Channel string
	Spend   decimal.Decimal
	Revenue decimal.Decimal
	ROAS    decimal.Decimal
	Share   decimal.Decimal // percent of total spend
}

// ROASStats summarizes the distribution of daily ROAS across all channels.
type ROASStats struct {
	Days   int
	Mean   float64
	Median float64
	P90    float64
	Min    float64
	Max    float64
}

// Data holds everything the dashboard renders.
type Data struct {
	Totals    campaign.Totals
	Channels  []ChannelPerformance
	Monthly   []MonthlyTrend
	Funnel    []FunnelStage
	Budget    []BudgetShare
	DailyROAS ROASStats
}

// Build aggregates records into dashboard data.
func Build(records []campaign.Record) (*Data, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no campaign records to summarize")
	}

	byChannel := campaign.SummarizeByChannel(records)
	totals := campaign.Summarize(records)

	daily, err := dailyROAS(records)
	if err != nil {
		return nil, err
	}

	return &Data{
		Totals:    totals,
		Channels:  channelPerformance(byChannel),
		Monthly:   monthlyTrends(records),
		Funnel:    funnel(totals),
		Budget:    budget(byChannel, totals.Spend),
		DailyROAS: daily,
	}, nil
}

// channelPerformance orders channels by ascending ROAS, so the best channel
// ends up at the top of a horizontal bar chart.
func channelPerformance(byChannel []campaign.ChannelTotals) []ChannelPerformance {
	out := make([]ChannelPerformance, len(byChannel))
	for i, c := range byChannel {
		roas := c.ROAS()
		out[i] = ChannelPerformance{
			Channel:     c.Channel,
			Spend:       c.Spend,
			Revenue:     c.Revenue,
			Conversions: c.Conversions,
			ROAS:        roas,
			Band:        BandFor(c.Spend, roas),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].ROAS.Cmp(out[j].ROAS); c != 0 {
			return c < 0
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}

func monthlyTrends(records []campaign.Record) []MonthlyTrend {
	idx := make(map[string]int)
	var out []MonthlyTrend
	for _, r := range records {
		month := r.Date.Format("2006-01")
		i, ok := idx[month]
		if !ok {
			i = len(out)
			idx[month] = i
			out = append(out, MonthlyTrend{Month: month})
		}
		out[i].Spend = out[i].Spend.Add(r.Spend)
		out[i].Revenue = out[i].Revenue.Add(r.Revenue)
		out[i].Conversions += r.Conversions
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func funnel(t campaign.Totals) []FunnelStage {
	stages := []FunnelStage{
		{Stage: "Impressions", Value: t.Impressions},
		{Stage: "Clicks", Value: t.Clicks},
		{Stage: "Conversions", Value: t.Conversions},
	}
	for i := range stages {
		if t.Impressions == 0 {
			stages[i].PercentOfInitial = decimal.Zero
			continue
		}
		stages[i].PercentOfInitial = decimal.NewFromInt(stages[i].Value).
			Mul(hundred).
			Div(decimal.NewFromInt(t.Impressions)).
			Round(2)
	}
	return stages
}

// budget lists channels by descending spend.
func budget(byChannel []campaign.ChannelTotals, totalSpend decimal.Decimal) []BudgetShare {
	out := make([]BudgetShare, len(byChannel))
	for i, c := range byChannel {
		share := decimal.Zero
		if !totalSpend.IsZero() {
			share = c.Spend.Mul(hundred).Div(totalSpend).Round(2)
		}
		out[i] = BudgetShare{
			Channel: c.Channel,
			Spend:   c.Spend,
			Revenue: c.Revenue,
			ROAS:    c.ROAS(),
			Share:   share,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Spend.Cmp(out[j].Spend); c != 0 {
			return c > 0
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}

// dailyROAS computes revenue / spend per day across all channels. Days
// without spend are skipped.
func dailyROAS(records []campaign.Record) (ROASStats, error) {
	type day struct {
		spend, revenue decimal.Decimal
	}
	idx := make(map[string]int)
	var days []day
	for _, r := range records {
		key := r.Date.Format(campaign.DateLayout)
		i, ok := idx[key]
		if !ok {
			i = len(days)
			idx[key] = i
			days = append(days, day{})
		}
		days[i].spend = days[i].spend.Add(r.Spend)
		days[i].revenue = days[i].revenue.Add(r.Revenue)
	}

	var data stats.Float64Data
	for _, d := range days {
		if d.spend.IsZero() {
			continue
		}
		data = append(data, d.revenue.Div(d.spend).InexactFloat64())
	}
	if len(data) == 0 {
		return ROASStats{}, nil
	}

	var (
		s   = ROASStats{Days: len(data)}
		err error
	)
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, fmt.Errorf("failed to compute mean ROAS: %w", err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, fmt.Errorf("failed to compute median ROAS: %w", err)
	}
	if s.P90, err = stats.PercentileNearestRank(data, 90); err != nil {
		return s, fmt.Errorf("failed to compute p90 ROAS: %w", err)
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, fmt.Errorf("failed to compute min ROAS: %w", err)
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, fmt.Errorf("failed to compute max ROAS: %w", err)
	}
	return s, nil
}
