package analysis

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

func TestQueries(t *testing.T) {
	queries := Queries()

	expected := []struct {
		name string
		file string
	}{
		{"Overall Performance Summary", "analysis_overall_performance_summary.csv"},
		{"Channel Performance Comparison", "analysis_channel_performance_comparison.csv"},
		{"Underperforming Campaigns (ROAS < 1.5)", "analysis_underperforming_campaigns_(roas_<_1.5).csv"},
		{"Monthly Trend Analysis", "analysis_monthly_trend_analysis.csv"},
		{"Top Performing Campaigns (ROAS > 2.0)", "analysis_top_performing_campaigns_(roas_>_2.0).csv"},
	}

	if len(queries) != len(expected) {
		t.Fatalf("Expected %d queries, got %d", len(expected), len(queries))
	}
	for i, q := range queries {
		if q.Name != expected[i].name {
			t.Errorf("Query %d: expected name %q, got %q", i, expected[i].name, q.Name)
		}
		if q.FileName() != expected[i].file {
			t.Errorf("Query %d: expected file %q, got %q", i, expected[i].file, q.FileName())
		}
		if q.Description == "" {
			t.Errorf("Query %q has no description", q.Name)
		}
	}
}

func TestQuerySQL(t *testing.T) {
	tests := []struct {
		index    int
		contains []string
		args     []interface{}
	}{
		{
			index: 0,
			contains: []string{
				"COUNT(DISTINCT date) AS total_days",
				"ROUND(SUM(revenue) / NULLIF(SUM(spend), 0), 2) AS overall_roas",
				"FROM campaigns",
			},
		},
		{
			index: 1,
			contains: []string{
				"WHERE conversions > 0",
				"GROUP BY channel",
				"ORDER BY roas DESC NULLS LAST, channel",
				"ROUND(SUM(conversions)::numeric / NULLIF(SUM(clicks), 0) * 100, 2) AS conversion_rate",
			},
		},
		{
			index: 2,
			contains: []string{
				"WHERE spend > 0",
				"GROUP BY channel, campaign_type",
				"HAVING ROUND(SUM(revenue) / NULLIF(SUM(spend), 0), 2) < $1",
				"ORDER BY spend DESC",
				"LIMIT 10",
			},
			args: []interface{}{1.5},
		},
		{
			index: 3,
			contains: []string{
				"to_char(date, 'YYYY-MM') AS month",
				"GROUP BY month",
				"ORDER BY month",
			},
		},
		{
			index: 4,
			contains: []string{
				"GROUP BY channel, campaign_type, product",
				"HAVING ROUND(SUM(revenue) / NULLIF(SUM(spend), 0), 2) > $1",
				"LIMIT 15",
			},
			args: []interface{}{2.0},
		},
	}

	queries := Queries()
	for _, tt := range tests {
		q := queries[tt.index]
		t.Run(q.Slug(), func(t *testing.T) {
			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(sql, want) {
					t.Errorf("SQL missing %q:\n%s", want, sql)
				}
			}
			if len(args) != len(tt.args) {
				t.Fatalf("Expected args %v, got %v", tt.args, args)
			}
			for i := range args {
				if args[i] != tt.args[i] {
					t.Errorf("Arg %d: expected %v, got %v", i, tt.args[i], args[i])
				}
			}
		})
	}
}

func TestQueriesGuardDivision(t *testing.T) {
	for _, q := range Queries() {
		sql, _, err := q.ToSql()
		if err != nil {
			t.Fatalf("%s: ToSql failed: %v", q.Name, err)
		}
		parts := strings.Split(sql, " / ")
		for _, rest := range parts[1:] {
			if !strings.HasPrefix(rest, "NULLIF(") && !strings.HasPrefix(rest, "(SELECT NULLIF(") {
				t.Errorf("%s: unguarded division before %q", q.Name, rest[:min(len(rest), 30)])
			}
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "Google Ads", "Google Ads"},
		{"int64", int64(5856), "5856"},
		{"int32", int32(12), "12"},
		{"float", 4.25, "4.25"},
		{"date", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), "2024-07-01"},
		{"numeric", pgtype.Numeric{Int: big.NewInt(510000), Exp: -2, Valid: true}, "5100.00"},
		{"numeric fraction", pgtype.Numeric{Int: big.NewInt(-12345), Exp: -2, Valid: true}, "-123.45"},
		{"numeric null", pgtype.Numeric{}, ""},
		{"numeric integer", pgtype.Numeric{Int: big.NewInt(42), Exp: 0, Valid: true}, "42"},
		{"numeric nan", pgtype.Numeric{NaN: true, Valid: true}, "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, &Result{
		Columns: []string{"channel", "roas"},
		Rows:    [][]string{{"Referral", "9.87"}, {"Display Ads", "1.02"}},
	})
	if err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "Referral") || !strings.Contains(lines[2], "1.02") {
		t.Errorf("Unexpected table:\n%s", buf.String())
	}
	// Columns are right-aligned to a common width.
	if len(lines[1]) != len(lines[2]) {
		t.Errorf("Rows are not aligned:\n%s", buf.String())
	}
}

// fakeRows is an in-memory pgx.Rows.
type fakeRows struct {
	columns []string
	rows    [][]any
	pos     int
}

func (r *fakeRows) Close() {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fds[i].Name = c
	}
	return fds
}
func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}
func (r *fakeRows) Scan(dest ...any) error { return errors.New("not supported") }
func (r *fakeRows) Values() ([]any, error) { return r.rows[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte { return nil }
func (r *fakeRows) Conn() *pgx.Conn { return nil }

// fakeDB answers every query with a single row, and fails queries whose
// SQL contains failOn.
type fakeDB struct {
	failOn string
	calls  int
}

func (d *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.calls++
	if d.failOn != "" && strings.Contains(sql, d.failOn) {
		return nil, errors.New("relation does not exist")
	}
	return &fakeRows{
		columns: []string{"label", "total"},
		rows: [][]any{
			{"all", pgtype.Numeric{Int: big.NewInt(123456), Exp: -2, Valid: true}},
		},
	}, nil
}

func TestRunnerContinuesAfterFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	db := &fakeDB{failOn: "to_char"}
	var out bytes.Buffer

	results, err := NewRunner(db, dir, &out).Run(context.Background(), Queries())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if db.calls != 5 {
		t.Errorf("Expected 5 queries to run, got %d", db.calls)
	}
	if len(results) != 5 {
		t.Fatalf("Expected 5 results, got %d", len(results))
	}
	if Failed(results) != 1 {
		t.Errorf("Expected 1 failure, got %d", Failed(results))
	}
	if results[3].Error == nil {
		t.Error("Expected the monthly report to fail")
	}

	for i, res := range results {
		if i == 3 {
			if res.OutputFile != "" {
				t.Error("Failed report should not have an output file")
			}
			continue
		}
		data, err := os.ReadFile(res.OutputFile)
		if err != nil {
			t.Fatalf("Reading %s: %v", res.OutputFile, err)
		}
		if string(data) != "label,total\nall,1234.56\n" {
			t.Errorf("Unexpected CSV for %s: %q", res.QueryName, data)
		}
	}

	if !strings.Contains(out.String(), "Overall Performance Summary") {
		t.Errorf("Printed output missing report title:\n%s", out.String())
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	db := &fakeDB{}
	_, err := NewRunner(db, t.TempDir(), nil).Run(ctx, Queries())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if db.calls != 0 {
		t.Errorf("Expected no queries after cancel, got %d", db.calls)
	}
}
