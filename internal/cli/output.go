package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pgEdge/pgedge-campaigngen/internal/analysis"
	"github.com/pgEdge/pgedge-campaigngen/internal/campaign"
)

// selectProfiles returns the named profiles in argument order, or the whole
// table when no names are given.
func selectProfiles(table *campaign.ProfileTable, names []string) ([]campaign.ChannelProfile, error) {
	if len(names) == 0 {
		return table.Profiles(), nil
	}
	profiles := make([]campaign.ChannelProfile, 0, len(names))
	for _, name := range names {
		p, ok := table.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown channel %q (available: %s)",
				name, strings.Join(table.Channels(), ", "))
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func printProfiles(w io.Writer, profiles []campaign.ChannelProfile) error {
	result := &analysis.Result{
		Columns: []string{"channel", "impressions", "ctr", "conversion_rate", "spend", "avg_order_value"},
	}
	for _, p := range profiles {
		result.Rows = append(result.Rows, []string{
			p.Name,
			fmt.Sprintf("%d-%d", p.Impressions.Min, p.Impressions.Max),
			formatRange(p.CTR),
			formatRange(p.ConversionRate),
			formatRange(p.Spend),
			formatRange(p.AvgOrderValue),
		})
	}
	fmt.Fprintf(w, "Channel profiles (%d):\n\n", len(profiles))
	return analysis.WriteTable(w, result)
}

func formatRange(r campaign.Range) string {
	if r.Min == r.Max {
		return strconv.FormatFloat(r.Min, 'f', -1, 64)
	}
	return strconv.FormatFloat(r.Min, 'f', -1, 64) + "-" + strconv.FormatFloat(r.Max, 'f', -1, 64)
}

func printGenerateSummary(w io.Writer, records []campaign.Record, path string) error {
	t := campaign.Summarize(records)

	fmt.Fprintf(w, "\nGenerated %d rows\n", t.Rows)
	if t.Rows > 0 {
		fmt.Fprintf(w, "Date range: %s to %s\n",
			t.FirstDate.Format(campaign.DateLayout), t.LastDate.Format(campaign.DateLayout))
	}
	fmt.Fprintf(w, "Total spend: $%s\n", t.Spend.StringFixed(2))
	fmt.Fprintf(w, "Total revenue: $%s\n", t.Revenue.StringFixed(2))
	fmt.Fprintf(w, "Overall ROAS: %sx\n", t.ROAS().StringFixed(2))
	fmt.Fprintf(w, "Saved to: %s\n", path)

	fmt.Fprintf(w, "\nChannel performance summary:\n\n")
	result := &analysis.Result{
		Columns: []string{"channel", "spend", "revenue", "conversions", "impressions", "clicks", "roas", "cac", "conversion_rate"},
	}
	for _, c := range campaign.SummarizeByChannel(records) {
		result.Rows = append(result.Rows, []string{
			c.Channel,
			c.Spend.StringFixed(2),
			c.Revenue.StringFixed(2),
			strconv.FormatInt(c.Conversions, 10),
			strconv.FormatInt(c.Impressions, 10),
			strconv.FormatInt(c.Clicks, 10),
			c.ROAS().StringFixed(2),
			c.CAC().StringFixed(2),
			c.ConversionRate().StringFixed(2),
		})
	}
	return analysis.WriteTable(w, result)
}
