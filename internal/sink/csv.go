//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sink writes the campaign dataset to flat files and reads it back
// for the downstream loader and dashboard.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pgEdge/pgedge-campaigngen/internal/campaign"
)

// WriteFile writes records to path in the given format ("csv" or "xlsx").
func WriteFile(path, format string, records []campaign.Record) error {
	switch format {
	case "csv":
		return WriteCSV(path, records)
	case "xlsx":
		return WriteXLSX(path, records)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// ReadFile reads records from a CSV or XLSX file, chosen by extension.
func ReadFile(path string) ([]campaign.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	return ReadCSV(path)
}

// WriteCSV writes records to path, creating parent directories as needed.
func WriteCSV(path string, records []campaign.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := EncodeCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// EncodeCSV writes the header and one line per record to w.
func EncodeCSV(w io.Writer, records []campaign.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(campaign.Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads records from a CSV file written by WriteCSV.
func ReadCSV(path string) ([]campaign.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := DecodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// DecodeCSV parses a header line followed by campaign rows.
func DecodeCSV(r io.Reader) ([]campaign.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(campaign.Columns)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, err
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var records []campaign.Record
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := campaign.ParseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(campaign.Columns) {
		return fmt.Errorf("unexpected header: expected %d columns, got %d",
			len(campaign.Columns), len(header))
	}
	for i, name := range campaign.Columns {
		if strings.TrimSpace(header[i]) != name {
			return fmt.Errorf("unexpected header column %d: expected %q, got %q",
				i+1, name, header[i])
		}
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
