package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-campaigngen/internal/config"
	"github.com/pgEdge/pgedge-campaigngen/internal/logging"
)

func TestRunGenerate(t *testing.T) {
	var logs, out bytes.Buffer
	logging.Init(logging.Config{Level: "info", Output: &logs})
	defer logging.Init(logging.DefaultConfig())

	cfg = config.DefaultConfig()
	path := filepath.Join(t.TempDir(), "campaigns.csv")
	generateStart, generateEnd, generateOutput = "2024-07-01", "2024-07-03", path
	defer func() {
		cfg = nil
		generateStart, generateEnd, generateOutput = "", "", ""
	}()

	generateCmd.SetOut(&out)
	defer generateCmd.SetOut(nil)

	if err := runGenerate(generateCmd, nil); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	// header plus 3 days of 12 channels
	if lines := strings.Count(string(data), "\n"); lines != 37 {
		t.Errorf("Expected 37 lines, got %d", lines)
	}

	if n := strings.Count(logs.String(), "Generating campaign data"); n != 1 {
		t.Errorf("Expected one start message, got %d:\n%s", n, logs.String())
	}
	if !strings.Contains(logs.String(), "Campaign data written") {
		t.Errorf("Missing completion message:\n%s", logs.String())
	}
	if !strings.Contains(out.String(), "Generated 36 rows") {
		t.Errorf("Missing summary:\n%s", out.String())
	}
}
