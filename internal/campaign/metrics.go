//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package campaign

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Derive fills in the five derived metrics of r. A zero denominator yields 0
// for the affected metric.
func Derive(r Record) Record {
	r.CTR = percent(r.Clicks, r.Impressions)
	r.ConversionRate = percent(r.Conversions, r.Clicks)
	r.CAC = ratio(r.Spend, decimal.NewFromInt(r.Conversions))
	r.ROAS = ratio(r.Revenue, r.Spend)
	r.Profit = r.Revenue.Sub(r.Spend).Round(2)
	return r
}

// Money converts v to a 2-decimal amount. Infinite and NaN values become 0.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(Finite(v)).Round(2)
}

// Finite returns v, or 0 if v is infinite or NaN.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func percent(num, den int64) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(num).Mul(hundred).Div(decimal.NewFromInt(den)).Round(2)
}

func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Round(2)
}
