package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-campaigngen/internal/campaign"
)

func sampleRecords(t *testing.T) []campaign.Record {
	t.Helper()
	gen, err := campaign.NewGenerator(campaign.DefaultProfileTable(), campaign.GeneratorConfig{
		Start: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Seed:  42,
	})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	records, err := gen.Generate(t.Context())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return records
}

func assertSameRecords(t *testing.T, want, got []campaign.Record) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		w := strings.Join(want[i].Strings(), ",")
		g := strings.Join(got[i].Strings(), ",")
		if w != g {
			t.Fatalf("Record %d mismatch:\n got  %s\n want %s", i, g, w)
		}
	}
}

func TestEncodeCSV(t *testing.T) {
	records := sampleRecords(t)

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, records); err != nil {
		t.Fatalf("EncodeCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(records)+1 {
		t.Fatalf("Expected %d lines, got %d", len(records)+1, len(lines))
	}
	if lines[0] != strings.Join(campaign.Columns, ",") {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2024-12-30,Google Ads,") {
		t.Errorf("Unexpected first row: %s", lines[1])
	}
}

func TestCSVRoundTrip(t *testing.T) {
	records := sampleRecords(t)
	path := filepath.Join(t.TempDir(), "nested", "campaigns.csv")

	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	assertSameRecords(t, records, got)

	// ReadFile picks the reader by extension
	got, err = ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	assertSameRecords(t, records, got)
}

func TestXLSXRoundTrip(t *testing.T) {
	records := sampleRecords(t)
	path := filepath.Join(t.TempDir(), "campaigns.xlsx")

	if err := WriteFile(path, "xlsx", records); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	assertSameRecords(t, records, got)
}

func TestWriteFileUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaigns.json")
	if err := WriteFile(path, "json", nil); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestDecodeCSVErrors(t *testing.T) {
	header := strings.Join(campaign.Columns, ",")
	row := "2024-07-01,Google Ads,Flash Sale,Basic Plan,10000,400,40,1000.00,6000.00,4.00,10.00,25.00,6.00,5000.00"

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", strings.Replace(header, "roas", "return", 1) + "\n" + row + "\n"},
		{"short row", header + "\n2024-07-01,Google Ads\n"},
		{"bad number", header + "\n" + strings.Replace(row, "10000", "ten", 1) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	records, err := DecodeCSV(strings.NewReader(header + "\n" + row + "\n"))
	if err != nil {
		t.Fatalf("Valid input failed: %v", err)
	}
	if len(records) != 1 || records[0].Impressions != 10000 {
		t.Errorf("Unexpected records: %+v", records)
	}
}

func TestHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != strings.Join(campaign.Columns, ",") {
		t.Errorf("Expected header only, got %q", data)
	}
	records, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	if _, err := ReadCSV(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestWriteCSVReproducible(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, seed uint64, workers int) []byte {
		t.Helper()
		gen, err := campaign.NewGenerator(campaign.DefaultProfileTable(), campaign.GeneratorConfig{
			Start:   time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			Seed:    seed,
			Workers: workers,
		})
		if err != nil {
			t.Fatalf("NewGenerator failed: %v", err)
		}
		records, err := gen.Generate(t.Context())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		path := filepath.Join(dir, name)
		if err := WriteCSV(path, records); err != nil {
			t.Fatalf("WriteCSV failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		return data
	}

	first := write("first.csv", 42, 1)
	if second := write("second.csv", 42, 1); !bytes.Equal(first, second) {
		t.Error("Same seed produced different files")
	}
	if parallel := write("parallel.csv", 42, 4); !bytes.Equal(first, parallel) {
		t.Error("Worker count changed the file")
	}
	if other := write("other.csv", 43, 1); bytes.Equal(first, other) {
		t.Error("Different seeds produced identical files")
	}
}
