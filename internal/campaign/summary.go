package campaign

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Totals aggregates a set of records.
type Totals struct {
	Rows        int
	FirstDate   time.Time
	LastDate    time.Time
	Impressions int64
	Clicks      int64
	Conversions int64
	Spend       decimal.Decimal
	Revenue     decimal.Decimal
}

// ROAS returns revenue / spend, or 0 when nothing was spent.
func (t Totals) ROAS() decimal.Decimal {
	return ratio(t.Revenue, t.Spend)
}

// CAC returns spend / conversions, or 0 without conversions.
func (t Totals) CAC() decimal.Decimal {
	return ratio(t.Spend, decimal.NewFromInt(t.Conversions))
}

// ConversionRate returns conversions / clicks in percent.
func (t Totals) ConversionRate() decimal.Decimal {
	return percent(t.Conversions, t.Clicks)
}

// Profit returns revenue - spend.
func (t Totals) Profit() decimal.Decimal {
	return t.Revenue.Sub(t.Spend)
}

func (t *Totals) add(r Record) {
	if t.Rows == 0 || r.Date.Before(t.FirstDate) {
		t.FirstDate = r.Date
	}
	if t.Rows == 0 || r.Date.After(t.LastDate) {
		t.LastDate = r.Date
	}
	t.Rows++
	t.Impressions += r.Impressions
	t.Clicks += r.Clicks
	t.Conversions += r.Conversions
	t.Spend = t.Spend.Add(r.Spend)
	t.Revenue = t.Revenue.Add(r.Revenue)
}

// Summarize totals all records.
func Summarize(records []Record) Totals {
	var t Totals
	for _, r := range records {
		t.add(r)
	}
	return t
}

// ChannelTotals is the per-channel aggregate.
type ChannelTotals struct {
	Channel string
	Totals
}

// SummarizeByChannel groups records by channel, ordered by ROAS descending
// and then by channel name.
func SummarizeByChannel(records []Record) []ChannelTotals {
	idx := make(map[string]int)
	var out []ChannelTotals
	for _, r := range records {
		i, ok := idx[r.Channel]
		if !ok {
			i = len(out)
			idx[r.Channel] = i
			out = append(out, ChannelTotals{Channel: r.Channel})
		}
		out[i].add(r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := out[i].ROAS().Cmp(out[j].ROAS())
		if c != 0 {
			return c > 0
		}
		return out[i].Channel < out[j].Channel
	})
	return out
}
