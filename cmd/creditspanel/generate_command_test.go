package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"creditspanel/internal/testsupport"
)

func TestGenerateThenImport(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := env.run(t, "project", "open", "Demo"); err != nil {
		t.Fatalf("project open: %v", err)
	}

	out, _, err := env.run(t, "generate", "--message", "Thanks!", "--duration", "12", "--json")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var result generateOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if result.Filename != "credits_001.mp4" || result.PatronCount != 42 {
		t.Fatalf("unexpected result: %+v", result)
	}
	sent := env.backend.Generated()
	if len(sent) != 1 || sent[0].Message != "Thanks!" || sent[0].Duration != 12 {
		t.Fatalf("unexpected requests: %+v", sent)
	}

	out, _, err = env.run(t, "import")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "[OK] Created new sequence with credits video.")
	requireContains(t, out, "Project: Demo | Sequence: patreon_credits_credits_001")

	dest := filepath.Join(env.cfg.Host.UserDataDir, "patreon_credits_credits_001.mp4")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected downloaded file at %s: %v", dest, err)
	}

	out, _, err = env.run(t, "project", "show")
	if err != nil {
		t.Fatalf("project show: %v", err)
	}
	requireContains(t, out, "patreon_credits_credits_001.mp4")
}

func TestGenerateRemembersForm(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := env.run(t, "generate", "--message", "First", "--columns", "4"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := env.run(t, "generate", "--duration", "20"); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	sent := env.backend.Generated()
	if len(sent) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(sent))
	}
	if sent[1].Message != "First" || sent[1].Columns != 4 || sent[1].Duration != 20 {
		t.Fatalf("saved form not reused: %+v", sent[1])
	}
}

func TestGenerateEmptyMessage(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "generate", "--message", "   ")
	if err == nil {
		t.Fatal("expected error for blank message")
	}
	var uerr *userError
	if !errors.As(err, &uerr) || uerr.Error() != "Please enter a header message." {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.backend.Total() != 0 {
		t.Fatalf("expected no backend requests, got %d", env.backend.Total())
	}
}

func TestGenerateServerError(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.SetGenerateError("Patreon token expired")

	_, _, err := env.run(t, "generate", "--message", "Hi")
	if err == nil || err.Error() != "Error: Patreon token expired" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateCustomNamesFile(t *testing.T) {
	env := setupCLITestEnv(t)
	names := filepath.Join(env.baseDir, "names.txt")
	if err := os.WriteFile(names, []byte("Ada\nGrace\n\nLinus\n"), 0o644); err != nil {
		t.Fatalf("write names: %v", err)
	}
	if _, _, err := env.run(t, "generate", "--message", "Hi", "--names-file", names); err != nil {
		t.Fatalf("generate: %v", err)
	}
	sent := env.backend.Generated()
	if len(sent) != 1 {
		t.Fatalf("expected 1 request, got %d", len(sent))
	}
	want := []string{"Ada", "Grace", "Linus"}
	if got := sent[0].CustomNames; len(got) != len(want) {
		t.Fatalf("custom names = %v, want %v", got, want)
	}
	for i := range want {
		if sent[0].CustomNames[i] != want[i] {
			t.Fatalf("custom names = %v, want %v", sent[0].CustomNames, want)
		}
	}
}

func TestImportWithoutProject(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.AddVideo("credits_009.mp4", testsupport.MediaBytes(1024))

	_, _, err := env.run(t, "import", "credits_009.mp4")
	if err == nil || err.Error() != "ERROR: No project open." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestImportNothingGenerated(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := env.run(t, "import"); err == nil {
		t.Fatal("expected error when no video has been generated")
	}
}
