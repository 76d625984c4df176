package main

import (
	"path/filepath"
	"testing"

	"creditspanel/internal/testsupport"
)

func TestProjectLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "project", "show")
	if err != nil {
		t.Fatalf("project show: %v", err)
	}
	requireContains(t, out, "No project open")

	if _, _, err := env.run(t, "project", "open", "Episode 12"); err != nil {
		t.Fatalf("project open: %v", err)
	}
	out, _, err = env.run(t, "project", "sequence", "Main", "--tracks", "2")
	if err != nil {
		t.Fatalf("project sequence: %v", err)
	}
	requireContains(t, out, "Created sequence Main with 2 video track(s)")

	clip := filepath.Join(env.baseDir, "intro.mp4")
	testsupport.WriteMedia(t, clip, 4096)
	if _, _, err := env.run(t, "project", "import", clip); err != nil {
		t.Fatalf("project import: %v", err)
	}

	out, _, err = env.run(t, "project", "show")
	if err != nil {
		t.Fatalf("project show: %v", err)
	}
	requireContains(t, out, "Project: Episode 12 | Sequence: Main")
	requireContains(t, out, "intro.mp4")

	if _, _, err := env.run(t, "project", "close"); err != nil {
		t.Fatalf("project close: %v", err)
	}
	out, _, err = env.run(t, "project", "show")
	if err != nil {
		t.Fatalf("project show: %v", err)
	}
	requireContains(t, out, "No project open")
}

func TestImportAppendsToActiveSequence(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.AddVideo("credits_003.mp4", testsupport.MediaBytes(2048))

	if _, _, err := env.run(t, "project", "open", "Demo"); err != nil {
		t.Fatalf("project open: %v", err)
	}
	if _, _, err := env.run(t, "project", "sequence", "Edit"); err != nil {
		t.Fatalf("project sequence: %v", err)
	}
	out, _, err := env.run(t, "import", "credits_003.mp4")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "[OK] Added credits to end of timeline.")
	requireContains(t, out, "Sequence: Edit")
}
