//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dashboard

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Worksheet names, in workbook order.
const (
	SheetSummary  = "Summary"
	SheetChannels = "Channel Performance"
	SheetMonthly  = "Monthly Trends"
	SheetFunnel   = "Conversion Funnel"
	SheetBudget   = "Budget Allocation"
)

var bandColors = map[Band]string{
	BandRed:    "D9534F",
	BandYellow: "F0AD4E",
	BandGreen:  "5CB85C",
}

// WriteWorkbook renders data into an XLSX file with one sheet per chart.
func WriteWorkbook(path string, data *Data) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	steps := []struct {
		sheet string
		write func(*excelize.File, *Data) error
	}{
		{SheetSummary, writeSummarySheet},
		{SheetChannels, writeChannelSheet},
		{SheetMonthly, writeMonthlySheet},
		{SheetFunnel, writeFunnelSheet},
		{SheetBudget, writeBudgetSheet},
	}
	for _, step := range steps {
		if step.sheet != SheetSummary {
			if _, err := f.NewSheet(step.sheet); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", step.sheet, err)
			}
		}
		if err := step.write(f, data); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", step.sheet, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, d *Data) error {
	t := d.Totals
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"First day", t.FirstDate.Format("2006-01-02")},
		{"Last day", t.LastDate.Format("2006-01-02")},
		{"Rows", t.Rows},
		{"Impressions", t.Impressions},
		{"Clicks", t.Clicks},
		{"Conversions", t.Conversions},
		{"Spend", t.Spend.InexactFloat64()},
		{"Revenue", t.Revenue.InexactFloat64()},
		{"Profit", t.Profit().InexactFloat64()},
		{"Overall ROAS", t.ROAS().InexactFloat64()},
		{"Daily ROAS mean", round2(d.DailyROAS.Mean)},
		{"Daily ROAS median", round2(d.DailyROAS.Median)},
		{"Daily ROAS p90", round2(d.DailyROAS.P90)},
	}
	if err := writeRows(f, SheetSummary, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 20)
}

// writeChannelSheet stores ROAS once per band column so a stacked bar chart
// shows each channel in its band colour.
func writeChannelSheet(f *excelize.File, d *Data) error {
	rows := [][]interface{}{
		{"Channel", "Spend", "Revenue", "Conversions", "ROAS", "Band", "Below 1.5", "1.5 to 2.0", "2.0 and above"},
	}
	for _, c := range d.Channels {
		roas := c.ROAS.InexactFloat64()
		row := []interface{}{
			c.Channel, c.Spend.InexactFloat64(), c.Revenue.InexactFloat64(),
			c.Conversions, roas, string(c.Band), nil, nil, nil,
		}
		switch c.Band {
		case BandRed:
			row[6] = roas
		case BandYellow:
			row[7] = roas
		case BandGreen:
			row[8] = roas
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, SheetChannels, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetChannels, "A", "A", 22); err != nil {
		return err
	}

	n := len(d.Channels)
	var series []excelize.ChartSeries
	for i, band := range []Band{BandRed, BandYellow, BandGreen} {
		col := string(rune('G' + i))
		series = append(series, excelize.ChartSeries{
			Name:       cellRef(SheetChannels, col, 1),
			Categories: rangeRef(SheetChannels, "A", 2, n+1),
			Values:     rangeRef(SheetChannels, col, 2, n+1),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bandColors[band]}},
		})
	}
	return f.AddChart(SheetChannels, "K2", &excelize.Chart{
		Type:      excelize.BarStacked,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: "Channel Performance by ROAS"}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Channel"}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Return on Ad Spend (ROAS)"}}},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		Dimension: excelize.ChartDimension{Width: 720, Height: 480},
	})
}

func writeMonthlySheet(f *excelize.File, d *Data) error {
	rows := [][]interface{}{{"Month", "Spend", "Revenue", "Conversions"}}
	for _, m := range d.Monthly {
		rows = append(rows, []interface{}{
			m.Month, m.Spend.InexactFloat64(), m.Revenue.InexactFloat64(), m.Conversions,
		})
	}
	if err := writeRows(f, SheetMonthly, rows); err != nil {
		return err
	}

	n := len(d.Monthly)
	return f.AddChart(SheetMonthly, "F2", &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       cellRef(SheetMonthly, "C", 1),
				Categories: rangeRef(SheetMonthly, "A", 2, n+1),
				Values:     rangeRef(SheetMonthly, "C", 2, n+1),
			},
			{
				Name:       cellRef(SheetMonthly, "B", 1),
				Categories: rangeRef(SheetMonthly, "A", 2, n+1),
				Values:     rangeRef(SheetMonthly, "B", 2, n+1),
			},
		},
		Title:     []excelize.RichTextRun{{Text: "Monthly Revenue vs Spend Trend"}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Month"}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Amount ($)"}}},
		Dimension: excelize.ChartDimension{Width: 720, Height: 480},
	})
}

// writeFunnelSheet renders the funnel as horizontal bars, widest first.
func writeFunnelSheet(f *excelize.File, d *Data) error {
	rows := [][]interface{}{{"Stage", "Value", "Percent of initial"}}
	for _, s := range d.Funnel {
		rows = append(rows, []interface{}{s.Stage, s.Value, s.PercentOfInitial.InexactFloat64()})
	}
	if err := writeRows(f, SheetFunnel, rows); err != nil {
		return err
	}

	n := len(d.Funnel)
	return f.AddChart(SheetFunnel, "E2", &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       cellRef(SheetFunnel, "B", 1),
			Categories: rangeRef(SheetFunnel, "A", 2, n+1),
			Values:     rangeRef(SheetFunnel, "B", 2, n+1),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"337AB7"}},
		}},
		Title:     []excelize.RichTextRun{{Text: "Marketing Conversion Funnel"}},
		Legend:    excelize.ChartLegend{Position: "none"},
		XAxis:     excelize.ChartAxis{ReverseOrder: true},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	})
}

func writeBudgetSheet(f *excelize.File, d *Data) error {
	rows := [][]interface{}{{"Channel", "Spend", "Revenue", "ROAS", "Share of spend (%)"}}
	for _, b := range d.Budget {
		rows = append(rows, []interface{}{
			b.Channel, b.Spend.InexactFloat64(), b.Revenue.InexactFloat64(),
			b.ROAS.InexactFloat64(), b.Share.InexactFloat64(),
		})
	}
	if err := writeRows(f, SheetBudget, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetBudget, "A", "A", 22); err != nil {
		return err
	}

	n := len(d.Budget)
	return f.AddChart(SheetBudget, "G2", &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       cellRef(SheetBudget, "B", 1),
			Categories: rangeRef(SheetBudget, "A", 2, n+1),
			Values:     rangeRef(SheetBudget, "B", 2, n+1),
		}},
		Title:     []excelize.RichTextRun{{Text: "Budget Allocation by Channel"}},
		Legend:    excelize.ChartLegend{Position: "right"},
		PlotArea:  excelize.ChartPlotArea{ShowPercent: true},
		Dimension: excelize.ChartDimension{Width: 640, Height: 480},
	})
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func cellRef(sheet, col string, row int) string {
	return fmt.Sprintf("'%s'!$%s$%d", sheet, col, row)
}

func rangeRef(sheet, col string, from, to int) string {
	return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, col, from, col, to)
}
