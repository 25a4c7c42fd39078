//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package campaign generates the synthetic marketing-campaign dataset:
// channel profiles, the daily row generator and the derived metrics.
package campaign

import (
	"fmt"

	"github.com/pgEdge/pgedge-campaigngen/internal/datagen"
)

// Range is a closed interval for continuous draws. Min == Max is a fixed value.
type Range struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// IntRange is a half-open interval [Min, Max) for integer draws.
// Min == Max is a fixed value.
type IntRange struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// Fixed returns a Range that always yields v.
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

func (r Range) draw(src datagen.Source) float64 {
	return src.Float64(r.Min, r.Max)
}

func (r IntRange) draw(src datagen.Source) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return src.Int(r.Min, r.Max-1)
}

// ChannelProfile describes how one marketing channel performs on a typical day.
type ChannelProfile struct {
	Name           string   `mapstructure:"name"`
	Impressions    IntRange `mapstructure:"impressions"`
	CTR            Range    `mapstructure:"ctr"`
	ConversionRate Range    `mapstructure:"conversion_rate"`
	Spend          Range    `mapstructure:"spend"`
	AvgOrderValue  Range    `mapstructure:"avg_order_value"`
}

// Sample is one day's draw from a ChannelProfile, before seasonal scaling.
type Sample struct {
	Impressions   int64
	Clicks        int64
	Conversions   int64
	Spend         float64
	AvgOrderValue float64
}

// Draw samples the profile. Values are drawn in a fixed order (impressions,
// ctr, conversion rate, spend, order value) so a seeded source reproduces
// the same sample.
func (p ChannelProfile) Draw(src datagen.Source) Sample {
	impressions := p.Impressions.draw(src)
	ctr := p.CTR.draw(src)
	convRate := p.ConversionRate.draw(src)
	spend := p.Spend.draw(src)
	aov := p.AvgOrderValue.draw(src)

	clicks := int64(float64(impressions) * ctr)
	conversions := int64(float64(clicks) * convRate)

	return Sample{
		Impressions:   int64(impressions),
		Clicks:        clicks,
		Conversions:   conversions,
		Spend:         spend,
		AvgOrderValue: aov,
	}
}

// Validate checks that the profile can be sampled.
func (p ChannelProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("channel name is required")
	}
	if p.Impressions.Min < 0 || p.Impressions.Max < p.Impressions.Min {
		return fmt.Errorf("channel %s: invalid impressions range [%d, %d]",
			p.Name, p.Impressions.Min, p.Impressions.Max)
	}
	ranges := []struct {
		name  string
		r     Range
		limit float64
	}{
		{"ctr", p.CTR, 1},
		{"conversion_rate", p.ConversionRate, 1},
		{"spend", p.Spend, 0},
		{"avg_order_value", p.AvgOrderValue, 0},
	}
	for _, rr := range ranges {
		if rr.r.Min < 0 || rr.r.Max < rr.r.Min {
			return fmt.Errorf("channel %s: invalid %s range [%g, %g]",
				p.Name, rr.name, rr.r.Min, rr.r.Max)
		}
		if rr.limit > 0 && rr.r.Max > rr.limit {
			return fmt.Errorf("channel %s: %s must not exceed %g", p.Name, rr.name, rr.limit)
		}
	}
	return nil
}

// CampaignTypes are assigned uniformly at random to each record.
var CampaignTypes = []string{
	"Brand Awareness", "Lead Generation", "Product Launch",
	"Retargeting", "Seasonal Promotion", "Flash Sale",
}

// Products are assigned uniformly at random to each record.
var Products = []string{
	"Premium Plan", "Basic Plan", "Enterprise Plan",
	"Starter Kit", "Add-on Service",
}

// DefaultProfiles returns the built-in channel profiles in output order.
func DefaultProfiles() []ChannelProfile {
	return []ChannelProfile{
		{"Google Ads", IntRange{8000, 15000}, Range{0.03, 0.05}, Range{0.08, 0.12}, Range{800, 1500}, Range{120, 180}},
		{"Facebook Ads", IntRange{12000, 20000}, Range{0.02, 0.04}, Range{0.05, 0.09}, Range{600, 1200}, Range{90, 140}},
		{"Instagram Ads", IntRange{10000, 18000}, Range{0.025, 0.045}, Range{0.04, 0.08}, Range{500, 1000}, Range{80, 120}},
		{"LinkedIn Ads", IntRange{3000, 6000}, Range{0.015, 0.03}, Range{0.10, 0.15}, Range{900, 1800}, Range{200, 350}},
		{"Email Marketing", IntRange{15000, 25000}, Range{0.15, 0.25}, Range{0.08, 0.14}, Range{100, 300}, Range{110, 160}},
		{"Organic Search", IntRange{20000, 35000}, Range{0.04, 0.08}, Range{0.10, 0.16}, Fixed(0), Range{100, 150}},
		{"Display Ads", IntRange{25000, 40000}, Range{0.01, 0.02}, Range{0.02, 0.05}, Range{700, 1300}, Range{85, 130}},
		{"YouTube Ads", IntRange{15000, 25000}, Range{0.015, 0.03}, Range{0.04, 0.08}, Range{800, 1400}, Range{95, 145}},
		{"Twitter Ads", IntRange{8000, 14000}, Range{0.02, 0.035}, Range{0.03, 0.06}, Range{400, 800}, Range{75, 115}},
		{"TikTok Ads", IntRange{18000, 30000}, Range{0.025, 0.045}, Range{0.03, 0.07}, Range{600, 1100}, Range{70, 110}},
		{"Affiliate Marketing", IntRange{5000, 10000}, Range{0.04, 0.07}, Range{0.08, 0.13}, Range{300, 700}, Range{100, 150}},
		{"Referral", IntRange{3000, 7000}, Range{0.05, 0.10}, Range{0.12, 0.18}, Range{50, 200}, Range{120, 180}},
	}
}

// ProfileTable is the immutable, ordered set of channel profiles used for a run.
type ProfileTable struct {
	profiles []ChannelProfile
	index    map[string]int
}

// NewProfileTable validates and copies the given profiles.
func NewProfileTable(profiles []ChannelProfile) (*ProfileTable, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("at least one channel profile is required")
	}

	t := &ProfileTable{
		profiles: make([]ChannelProfile, len(profiles)),
		index:    make(map[string]int, len(profiles)),
	}
	for i, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.index[p.Name]; dup {
			return nil, fmt.Errorf("duplicate channel profile: %s", p.Name)
		}
		t.profiles[i] = p
		t.index[p.Name] = i
	}
	return t, nil
}

// DefaultProfileTable returns the table built from DefaultProfiles.
func DefaultProfileTable() *ProfileTable {
	t, err := NewProfileTable(DefaultProfiles())
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of channels.
func (t *ProfileTable) Len() int {
	return len(t.profiles)
}

// Channels returns the channel names in table order.
func (t *ProfileTable) Channels() []string {
	names := make([]string, len(t.profiles))
	for i, p := range t.profiles {
		names[i] = p.Name
	}
	return names
}

// Profiles returns a copy of the profiles in table order.
func (t *ProfileTable) Profiles() []ChannelProfile {
	out := make([]ChannelProfile, len(t.profiles))
	copy(out, t.profiles)
	return out
}

// Lookup returns the profile for a channel.
func (t *ProfileTable) Lookup(name string) (ChannelProfile, bool) {
	i, ok := t.index[name]
	if !ok {
		return ChannelProfile{}, false
	}
	return t.profiles[i], true
}
