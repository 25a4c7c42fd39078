//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pgEdge/pgedge-campaigngen/internal/campaign"
)

// SheetName is the worksheet holding the dataset in XLSX output.
const SheetName = "campaigns"

// WriteXLSX writes records to a single-sheet workbook at path.
func WriteXLSX(path string, records []campaign.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(campaign.Columns))
	for i, name := range campaign.Columns {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := xlsxRow(r)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// xlsxRow keeps counts and amounts numeric so spreadsheet formulas work on them.
func xlsxRow(r campaign.Record) []interface{} {
	return []interface{}{
		r.Date.Format(campaign.DateLayout),
		r.Channel,
		r.CampaignType,
		r.Product,
		r.Impressions,
		r.Clicks,
		r.Conversions,
		r.Spend.InexactFloat64(),
		r.Revenue.InexactFloat64(),
		r.CTR.InexactFloat64(),
		r.ConversionRate.InexactFloat64(),
		r.CAC.InexactFloat64(),
		r.ROAS.InexactFloat64(),
		r.Profit.InexactFloat64(),
	}
}

// ReadXLSX reads records from a workbook written by WriteXLSX.
func ReadXLSX(path string) ([]campaign.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", SheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", SheetName)
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	records := make([]campaign.Record, 0, len(rows)-1)
	for i, fields := range rows[1:] {
		rec, err := campaign.ParseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
