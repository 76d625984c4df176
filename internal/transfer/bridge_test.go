package transfer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"creditspanel/internal/backend"
	"creditspanel/internal/config"
	"creditspanel/internal/fileutil"
	"creditspanel/internal/services"
)

type stubDownloader struct {
	data   []byte
	err    error
	called string
}

func (s *stubDownloader) OpenDownload(_ context.Context, filename string) (io.ReadCloser, error) {
	s.called = filename
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

type recordingSink struct {
	path    string
	payload string
	err     error
}

// diskSink writes payloads straight to the local filesystem.
type diskSink struct{}

func (diskSink) WriteBase64(_ context.Context, path, payload string) error {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(filepath.FromSlash(path), data, 0o644)
}

func (r *recordingSink) WriteBase64(_ context.Context, path, payload string) error {
	r.path = path
	r.payload = payload
	return r.err
}

func TestFetchAndPersistWritesPrefixedFile(t *testing.T) {
	dest := t.TempDir()
	content := []byte("\x00\x01binary video bytes\xff")
	dl := &stubDownloader{data: content}
	bridge := New(dl, diskSink{})

	path, err := bridge.FetchAndPersist(context.Background(), ArtifactRef{Filename: "credits_001.mp4"}, dest)
	if err != nil {
		t.Fatalf("FetchAndPersist returned error: %v", err)
	}
	if dl.called != "credits_001.mp4" {
		t.Fatalf("expected download of artifact filename, got %q", dl.called)
	}
	want := filepath.Join(dest, "patreon_credits_credits_001.mp4")
	if path != want {
		t.Fatalf("unexpected path: got %q want %q", path, want)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestFetchAndPersistDownloadFailureWritesNothing(t *testing.T) {
	dest := t.TempDir()
	sink := &recordingSink{}
	bridge := New(&stubDownloader{err: &backend.StatusError{Method: "GET", Path: "/download/x.mp4", Status: 404}}, sink)

	_, err := bridge.FetchAndPersist(context.Background(), ArtifactRef{Filename: "x.mp4"}, dest)
	var dfe *DownloadFailedError
	if !errors.As(err, &dfe) || dfe.Status != 404 {
		t.Fatalf("expected DownloadFailedError(404), got %v", err)
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatal("expected transport class")
	}
	if sink.path != "" {
		t.Fatal("expected sink not called")
	}
	entries, _ := os.ReadDir(dest)
	for _, e := range entries {
		if e.Name() != LockFileName {
			t.Fatalf("unexpected file written: %s", e.Name())
		}
	}
}

func TestFetchAndPersistSinkFailureIsLocalWrite(t *testing.T) {
	sink := &recordingSink{err: errors.New("ERROR: permission denied")}
	bridge := New(&stubDownloader{data: []byte("abc")}, sink)

	_, err := bridge.FetchAndPersist(context.Background(), ArtifactRef{Filename: "x.mp4"}, t.TempDir())
	var lw *LocalWriteFailedError
	if !errors.As(err, &lw) {
		t.Fatalf("expected LocalWriteFailedError, got %v", err)
	}
	if lw.Message != "ERROR: permission denied" {
		t.Fatalf("unexpected message: %q", lw.Message)
	}
	if !errors.Is(err, services.ErrLocalWrite) {
		t.Fatal("expected local write class")
	}
	if sink.payload != base64.StdEncoding.EncodeToString([]byte("abc")) {
		t.Fatalf("unexpected payload: %q", sink.payload)
	}
}

func TestFetchAndPersistRejectsTraversal(t *testing.T) {
	dl := &stubDownloader{data: []byte("x")}
	bridge := New(dl, &recordingSink{})
	for _, name := range []string{"", "../etc/passwd", `a\b.mp4`, ".."} {
		_, err := bridge.FetchAndPersist(context.Background(), ArtifactRef{Filename: name}, t.TempDir())
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", name, err)
		}
	}
	if dl.called != "" {
		t.Fatal("expected no download for invalid names")
	}
}

func TestFetchAndPersistBusyWhenDirectoryLocked(t *testing.T) {
	dest := t.TempDir()
	held := flock.New(filepath.Join(dest, LockFileName))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("take lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	dl := &stubDownloader{data: []byte("x")}
	_, err = New(dl, &recordingSink{}).FetchAndPersist(context.Background(), ArtifactRef{Filename: "x.mp4"}, dest)
	if !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if dl.called != "" {
		t.Fatal("expected no download while locked")
	}
}

func TestFetchAndPersistFreeSpaceGuard(t *testing.T) {
	sink := &recordingSink{}
	bridge := New(&stubDownloader{data: []byte("x")}, sink, WithMinFreeBytes(1<<62))
	_, err := bridge.FetchAndPersist(context.Background(), ArtifactRef{Filename: "x.mp4"}, t.TempDir())
	if !errors.Is(err, services.ErrLocalWrite) {
		t.Skipf("free space not reported on this platform: %v", err)
	}
	if sink.path != "" {
		t.Fatal("expected sink not called")
	}
}

func TestDestinationPathStyles(t *testing.T) {
	tests := []struct {
		style string
		dir   string
		want  string
	}{
		{config.PathStyleWindows, `C:\Users\me\AppData/Roaming/`, `C:\Users\me\AppData\Roaming\patreon_credits_a.mp4`},
		{config.PathStylePosix, `/home/me\data/`, `/home/me/data/patreon_credits_a.mp4`},
	}
	for _, tt := range tests {
		if got := DestinationPath(tt.dir, "patreon_credits", "a.mp4", tt.style); got != tt.want {
			t.Fatalf("%s: got %q want %q", tt.style, got, tt.want)
		}
	}
	if got := DestinationPath("/tmp/x", "", "a.mp4", config.PathStyleNative); got != filepath.Join("/tmp/x", "a.mp4") {
		t.Fatalf("native: got %q", got)
	}
}

func TestFetchAndPersistAllowsDoubleDotInsideName(t *testing.T) {
	dest := t.TempDir()
	bridge := New(&stubDownloader{data: []byte("video")}, diskSink{})

	path, err := bridge.FetchAndPersist(context.Background(), ArtifactRef{Filename: "credits..final.mp4"}, dest)
	if err != nil {
		t.Fatalf("FetchAndPersist returned error: %v", err)
	}
	if want := filepath.Join(dest, "patreon_credits_credits..final.mp4"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
}
