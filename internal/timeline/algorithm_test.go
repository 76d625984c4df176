package timeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeMedia(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patreon_credits_credits_001.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	return path
}

func TestImportWithoutProject(t *testing.T) {
	app := NewMemoryApp()
	path := writeMedia(t)
	for i := 0; i < 2; i++ {
		if got := ImportAndAddToTimeline(app, path); got != MsgNoProject {
			t.Fatalf("call %d: got %q", i, got)
		}
	}
	if got := ImportAndAddToTimeline(nil, path); got != MsgNoProject {
		t.Fatalf("nil app: got %q", got)
	}
}

func TestImportFailureLeavesProjectUntouched(t *testing.T) {
	app := NewMemoryApp()
	project := app.Open("Episode")
	missing := filepath.Join(t.TempDir(), "missing.mp4")

	want := "ERROR: Import failed for " + missing
	for i := 0; i < 2; i++ {
		if got := ImportAndAddToTimeline(app, missing); got != want {
			t.Fatalf("call %d: got %q want %q", i, got, want)
		}
	}
	if len(project.Items()) != 0 || len(project.Sequences()) != 0 {
		t.Fatalf("expected no side effects, items=%d sequences=%d", len(project.Items()), len(project.Sequences()))
	}
}

func TestImportCreatesSequenceWhenNoneActive(t *testing.T) {
	app := NewMemoryApp()
	project := app.Open("Episode")
	path := writeMedia(t)

	if got := ImportAndAddToTimeline(app, path); got != MsgCreatedSequence {
		t.Fatalf("got %q", got)
	}
	seqs := project.Sequences()
	if len(seqs) != 1 {
		t.Fatalf("expected exactly one sequence, got %d", len(seqs))
	}
	if seqs[0].Name() != "patreon_credits_credits_001" {
		t.Fatalf("unexpected sequence name %q", seqs[0].Name())
	}
	clips := seqs[0].Tracks()[0].Clips()
	if len(clips) != 1 || clips[0].Start != 0 || clips[0].MediaPath != path {
		t.Fatalf("unexpected clips: %+v", clips)
	}
	if ActiveSequenceName(app) != seqs[0].Name() {
		t.Fatal("expected new sequence active")
	}
}

func TestImportWithoutVideoTracks(t *testing.T) {
	app := NewMemoryApp()
	project := app.Open("Episode")
	project.AddSequence("Empty", 0)
	path := writeMedia(t)

	if got := ImportAndAddToTimeline(app, path); got != MsgNoVideoTracks {
		t.Fatalf("got %q", got)
	}
	if len(project.Sequences()) != 1 {
		t.Fatal("expected no new sequence")
	}
}

func TestImportAppendsAtSequenceEnd(t *testing.T) {
	app := NewMemoryApp()
	project := app.Open("Episode")
	seq := project.AddSequence("Main Edit", 2)
	intro := project.AddItem("intro.mp4", "/media/intro.mp4", FromDuration(30*time.Second))
	body := project.AddItem("body.mp4", "/media/body.mp4", FromDuration(90*time.Second))
	if err := seq.Tracks()[0].InsertClip(intro, 0); err != nil {
		t.Fatal(err)
	}
	if err := seq.Tracks()[0].InsertClip(body, FromDuration(30*time.Second)); err != nil {
		t.Fatal(err)
	}
	before := seq.Tracks()[0].Clips()
	end := seq.End()

	path := writeMedia(t)
	if got := ImportAndAddToTimeline(app, path); got != MsgAppended {
		t.Fatalf("got %q", got)
	}

	after := seq.Tracks()[0].Clips()
	if len(after) != len(before)+1 {
		t.Fatalf("expected one new clip, got %d", len(after)-len(before))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("clip %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	added := after[len(after)-1]
	if added.Start != end || added.MediaPath != path {
		t.Fatalf("expected clip at %s, got %+v", end, added)
	}
	if len(seq.Tracks()[1].Clips()) != 0 {
		t.Fatal("expected second track untouched")
	}
}

func TestLocateImportedPrefersNewestExactMatch(t *testing.T) {
	a := &MemoryItem{name: "a", path: "/x/a.mp4"}
	b := &MemoryItem{name: "b", path: "/x/b.mp4"}
	a2 := &MemoryItem{name: "a2", path: "/x/a.mp4"}
	items := []ProjectItem{a, b, a2, &MemoryItem{name: "c", path: "/x/c.mp4"}}

	if got := locateImported(items, "/x/a.mp4"); got != a2 {
		t.Fatalf("expected newest exact match, got %v", got)
	}
	if got := locateImported(items, "/x/none.mp4"); got != items[3] {
		t.Fatalf("expected last-item fallback, got %v", got)
	}
	if got := locateImported(nil, "/x/a.mp4"); got != nil {
		t.Fatalf("expected nil for empty pool, got %v", got)
	}
}

type emptyPoolProject struct{ MemoryProject }

func (emptyPoolProject) ImportFiles([]string) (bool, error) { return true, nil }
func (emptyPoolProject) RootItems() []ProjectItem          { return nil }

type staticApp struct{ p Project }

func (s staticApp) Project() Project { return s.p }

func TestImportItemNotFound(t *testing.T) {
	app := staticApp{p: &emptyPoolProject{}}
	if got := ImportAndAddToTimeline(app, "/x/a.mp4"); got != MsgItemNotFound {
		t.Fatalf("got %q", got)
	}
}

type panickingProject struct{ emptyPoolProject }

func (panickingProject) RootItems() []ProjectItem { panic(errors.New("media pool unavailable")) }

func TestImportRecoversPanics(t *testing.T) {
	app := staticApp{p: &panickingProject{}}
	if got := ImportAndAddToTimeline(app, "/x/a.mp4"); got != "ERROR: media pool unavailable" {
		t.Fatalf("got %q", got)
	}
}

func TestImportVideoReturnsPath(t *testing.T) {
	app := NewMemoryApp()
	project := app.Open("Episode")
	path := writeMedia(t)
	if got := ImportVideo(app, path); got != path {
		t.Fatalf("got %q", got)
	}
	if len(project.Items()) != 1 || len(project.Sequences()) != 0 {
		t.Fatal("expected import only")
	}
}

func TestInsertClipSplitsSpanningClip(t *testing.T) {
	track := &MemoryTrack{}
	long := &MemoryItem{name: "long", path: "/l.mp4", length: 100}
	short := &MemoryItem{name: "short", path: "/s.mp4", length: 10}
	_ = track.InsertClip(long, 0)
	_ = track.InsertClip(short, 40)

	clips := track.Clips()
	if len(clips) != 3 {
		t.Fatalf("expected split into 3 clips, got %+v", clips)
	}
	if clips[0].Length != 40 || clips[1].Start != 40 || clips[2].Start != 50 || clips[2].Length != 60 {
		t.Fatalf("unexpected layout: %+v", clips)
	}
	if track.End() != 110 {
		t.Fatalf("unexpected end %d", track.End())
	}
}

func TestTimeConversions(t *testing.T) {
	if FromDuration(time.Second) != Time(TicksPerSecond) {
		t.Fatalf("unexpected ticks for 1s: %d", FromDuration(time.Second))
	}
	d := 90*time.Second + 500*time.Millisecond
	if got := FromDuration(d).Duration(); got != d {
		t.Fatalf("round trip: got %s want %s", got, d)
	}
	if got := FromDuration(d).String(); got != "00:01:30.500" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	app := NewMemoryApp()
	project := app.Open("Episode")
	project.AddSequence("Main", 1)
	path := writeMedia(t)
	if got := ImportAndAddToTimeline(app, path); got != MsgAppended {
		t.Fatalf("got %q", got)
	}

	restored := NewMemoryApp()
	restored.Restore(app.Snapshot())
	if ProjectName(restored) != "Episode" || ActiveSequenceName(restored) != "Main" {
		t.Fatalf("unexpected restored names: %q %q", ProjectName(restored), ActiveSequenceName(restored))
	}
	clips := restored.Current().Active().Tracks()[0].Clips()
	if len(clips) != 1 || clips[0].MediaPath != path {
		t.Fatalf("unexpected restored clips: %+v", clips)
	}
}
