package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestCLILogger(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	verbose = false
	t.Cleanup(func() { verbose = false })

	var buf bytes.Buffer
	logger := cliLogger(&buf)
	logger.Info("fixture loaded")
	logger.Warn("fixture row skipped", "loft_id", "loft-9")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the warning, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("prod env must log json: %v", err)
	}
	if entry["loft_id"] != "loft-9" {
		t.Fatalf("unexpected entry %v", entry)
	}

	verbose = true
	buf.Reset()
	cliLogger(&buf).Debug("matrix built")
	if !strings.Contains(buf.String(), "matrix built") {
		t.Fatalf("--verbose must enable debug output, got %q", buf.String())
	}
}
