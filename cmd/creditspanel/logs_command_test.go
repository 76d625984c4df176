package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"creditspanel/internal/logging"
)

func TestLogsShowsTrailingLines(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.cfg.Logging.Dir, logging.LogFileName)
	content := "2026-01-02T03:04:05Z INFO panel: first\n" +
		"2026-01-02T03:04:06Z WARN transfer: second\n" +
		"2026-01-02T03:04:07Z ERROR panel: third\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := env.run(t, "logs", "--lines", "2")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if strings.Contains(out, "first") {
		t.Fatalf("expected only two trailing lines, got %q", out)
	}
	requireContains(t, out, "second")
	requireContains(t, out, "third")

	out, _, err = env.run(t, "logs", "--component", "panel", "--level", "error")
	if err != nil {
		t.Fatalf("logs filtered: %v", err)
	}
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Fatalf("expected a single line, got %q", out)
	}
	requireContains(t, out, "third")
}

func TestLogsRejectsBadLevel(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := env.run(t, "logs", "--level", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
