package dashboard

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// SummaryMarkdown renders the dashboard data as a Markdown report.
func SummaryMarkdown(d *Data) []byte {
	var b bytes.Buffer
	t := d.Totals

	fmt.Fprintf(&b, "# Marketing Campaign Summary\n\n")
	fmt.Fprintf(&b, "%s to %s, %d rows.\n\n",
		t.FirstDate.Format("2006-01-02"), t.LastDate.Format("2006-01-02"), t.Rows)

	fmt.Fprintf(&b, "## Totals\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Impressions | %d |\n", t.Impressions)
	fmt.Fprintf(&b, "| Clicks | %d |\n", t.Clicks)
	fmt.Fprintf(&b, "| Conversions | %d |\n", t.Conversions)
	fmt.Fprintf(&b, "| Spend | %s |\n", t.Spend.StringFixed(2))
	fmt.Fprintf(&b, "| Revenue | %s |\n", t.Revenue.StringFixed(2))
	fmt.Fprintf(&b, "| Profit | %s |\n", t.Profit().StringFixed(2))
	fmt.Fprintf(&b, "| Overall ROAS | %s |\n", t.ROAS().StringFixed(2))
	fmt.Fprintf(&b, "| Conversion rate (%%) | %s |\n\n", t.ConversionRate().StringFixed(2))

	if d.DailyROAS.Days > 0 {
		s := d.DailyROAS
		fmt.Fprintf(&b, "## Daily ROAS\n\n")
		fmt.Fprintf(&b, "Across %d days with spend: mean %.2f, median %.2f, p90 %.2f (min %.2f, max %.2f).\n\n",
			s.Days, s.Mean, s.Median, s.P90, s.Min, s.Max)
	}

	fmt.Fprintf(&b, "## Channel Performance\n\n")
	fmt.Fprintf(&b, "| Channel | Spend | Revenue | Conversions | ROAS | Band |\n|---|---:|---:|---:|---:|---|\n")
	// Best channel first in the report.
	for i := len(d.Channels) - 1; i >= 0; i-- {
		c := d.Channels[i]
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s |\n",
			c.Channel, c.Spend.StringFixed(2), c.Revenue.StringFixed(2),
			c.Conversions, c.ROAS.StringFixed(2), c.Band)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Monthly Trend\n\n")
	fmt.Fprintf(&b, "| Month | Spend | Revenue | Conversions |\n|---|---:|---:|---:|\n")
	for _, m := range d.Monthly {
		fmt.Fprintf(&b, "| %s | %s | %s | %d |\n",
			m.Month, m.Spend.StringFixed(2), m.Revenue.StringFixed(2), m.Conversions)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Conversion Funnel\n\n")
	fmt.Fprintf(&b, "| Stage | Value | %% of impressions |\n|---|---:|---:|\n")
	for _, s := range d.Funnel {
		fmt.Fprintf(&b, "| %s | %d | %s |\n", s.Stage, s.Value, s.PercentOfInitial.StringFixed(2))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Budget Allocation\n\n")
	fmt.Fprintf(&b, "| Channel | Spend | Share (%%) | ROAS |\n|---|---:|---:|---:|\n")
	for _, s := range d.Budget {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			s.Channel, s.Spend.StringFixed(2), s.Share.StringFixed(2), s.ROAS.StringFixed(2))
	}

	return b.Bytes()
}

// SummaryHTML renders the Markdown report as a standalone HTML page.
func SummaryHTML(d *Data) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Marketing Campaign Summary",
	})
	return markdown.ToHTML(SummaryMarkdown(d), p, r)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
