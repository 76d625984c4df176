package hostsandbox

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"creditspanel/internal/hostbridge"
	"creditspanel/internal/services"
	"creditspanel/internal/timeline"
)

func TestAdapterRoundTripThroughSandbox(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash filenames are posix-only")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, `credits\001 "final".mp4`)
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := timeline.NewMemoryApp()
	app.Open("Episode 12").AddSequence("Main Edit", 1)
	sandbox := New(app)
	adapter := hostbridge.NewAdapter(sandbox, 0, nil)
	ctx := context.Background()

	pc, err := adapter.ProjectContext(ctx)
	if err != nil {
		t.Fatalf("ProjectContext: %v", err)
	}
	if pc.Describe() != "Project: Episode 12 | Sequence: Main Edit" {
		t.Fatalf("unexpected project context %q", pc.Describe())
	}

	reply, err := adapter.ImportAndAddToTimeline(ctx, path)
	if err != nil {
		t.Fatalf("ImportAndAddToTimeline: %v", err)
	}
	if reply.Raw != timeline.MsgAppended {
		t.Fatalf("unexpected reply %q", reply.Raw)
	}
	clips := app.Current().Active().Tracks()[0].Clips()
	if len(clips) != 1 || clips[0].MediaPath != path {
		t.Fatalf("expected escaped path to survive, got %+v", clips)
	}
}

func TestNoProjectReply(t *testing.T) {
	adapter := hostbridge.NewAdapter(New(nil), 0, nil)
	_, err := adapter.ImportAndAddToTimeline(context.Background(), "/tmp/x.mp4")
	if !errors.Is(err, services.ErrHostOperation) || err.Error() != timeline.MsgNoProject {
		t.Fatalf("expected %q, got %v", timeline.MsgNoProject, err)
	}
}

func TestWriteBase64FileThroughSandbox(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "patreon_credits_a.mp4")
	adapter := hostbridge.NewAdapter(New(nil), 0, nil)
	payload := base64.StdEncoding.EncodeToString([]byte("bytes"))

	if err := adapter.WriteBase64(context.Background(), dest, payload); err != nil {
		t.Fatalf("WriteBase64: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil || string(got) != "bytes" {
		t.Fatalf("unexpected file %q err=%v", got, err)
	}

	err = adapter.WriteBase64(context.Background(), filepath.Join(t.TempDir(), "missing", "x.mp4"), payload)
	if !errors.Is(err, services.ErrHostOperation) {
		t.Fatalf("expected host operation error, got %v", err)
	}
}

func TestEvalScriptThrowingReturnsEvalFailure(t *testing.T) {
	got, err := New(nil).EvalScript(context.Background(), `throw new Error("boom")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != hostbridge.EvalFailure {
		t.Fatalf("got %q", got)
	}
}

func TestEvalScriptInterruptedByContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(nil).EvalScript(ctx, `for (;;) {}`)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestEvalScriptAfterRacingDeadline(t *testing.T) {
	sandbox := New(nil)
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(i%20)*time.Microsecond)
		_, _ = sandbox.EvalScript(ctx, `var n = 0; for (var j = 0; j < 50; j++) { n += j }; n`)
		cancel()

		got, err := sandbox.EvalScript(context.Background(), `2 + 2`)
		if err != nil {
			t.Fatalf("iteration %d: stale interrupt leaked into next eval: %v", i, err)
		}
		if got != "4" {
			t.Fatalf("iteration %d: got %q", i, got)
		}
	}
}

func TestProjectPersistence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "project.json")
	media := filepath.Join(t.TempDir(), "a.mp4")
	if err := os.WriteFile(media, []byte("v"), 0o644); err != nil {
		t.Fatal(err)
	}

	sandbox, err := Open(file, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := sandbox.Mutate(func(app *timeline.MemoryApp) error {
		app.Open("Persisted")
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if got, _ := sandbox.EvalScript(context.Background(), hostbridge.Call(hostbridge.FnImportAndAddToTimeline, media)); got != timeline.MsgCreatedSequence {
		t.Fatalf("unexpected reply %q", got)
	}

	reopened, err := Open(file, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, _ := reopened.EvalScript(context.Background(), "getActiveSequenceName()"); got != "a" {
		t.Fatalf("expected persisted sequence, got %q", got)
	}
}
