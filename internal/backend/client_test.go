package backend_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"creditspanel/internal/api"
	"creditspanel/internal/backend"
	"creditspanel/internal/services"
	"creditspanel/internal/testsupport"
)

func newClient(t *testing.T, url string) *backend.Client {
	t.Helper()
	client, err := backend.New(url)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewNormalizesBaseURL(t *testing.T) {
	if _, err := backend.New("  "); !errors.Is(err, backend.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	client, err := backend.New("localhost:5000/panel/")
	if err != nil {
		t.Fatal(err)
	}
	if got := client.BaseURL(); got != "http://localhost:5000/panel" {
		t.Fatalf("unexpected base %q", got)
	}
	if got := client.ResolveURL("/output/a.mp4"); got != "http://localhost:5000/panel/output/a.mp4" {
		t.Fatalf("unexpected resolved url %q", got)
	}
	if got := client.ResolveURL("https://cdn.example/a.mp4"); got != "https://cdn.example/a.mp4" {
		t.Fatalf("absolute url rewritten: %q", got)
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	fake := testsupport.NewBackend(t)
	fake.SetNextFilename("credits_001.mp4")
	client := newClient(t, fake.URL())

	req := api.DefaultGenerationRequest()
	req.Message = "Thanks!"
	req.CustomNames = []string{"Alice", "Bob"}
	resp, err := client.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Filename != "credits_001.mp4" || resp.VideoURL != "/output/credits_001.mp4" || resp.PatronCount != 42 {
		t.Fatalf("unexpected response %+v", resp)
	}
	sent := fake.Generated()
	if len(sent) != 1 || sent[0].Message != "Thanks!" || len(sent[0].CustomNames) != 2 {
		t.Fatalf("backend saw %+v", sent)
	}
}

func TestGenerateServerErrorIsVerbatim(t *testing.T) {
	fake := testsupport.NewBackend(t)
	fake.SetGenerateError("Duration must be between 5 and 60 seconds")
	client := newClient(t, fake.URL())

	_, err := client.Generate(context.Background(), api.DefaultGenerationRequest())
	var serverErr *backend.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if err.Error() != "Duration must be between 5 and 60 seconds" {
		t.Fatalf("message not verbatim: %q", err.Error())
	}
	if !errors.Is(err, services.ErrServer) {
		t.Fatal("expected ErrServer marker")
	}
}

func TestBareNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()
	client := newClient(t, srv.URL)

	_, err := client.Generate(context.Background(), api.DefaultGenerationRequest())
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if code, ok := backend.StatusCode(err); !ok || code != http.StatusBadGateway {
		t.Fatalf("unexpected status %d ok=%v", code, ok)
	}
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client := newClient(t, url)

	_, err := client.CheckFFmpeg(context.Background())
	if !backend.IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if services.Kind(err) != "TransportError" {
		t.Fatalf("unexpected kind %q", services.Kind(err))
	}
}

func TestListAndDelete(t *testing.T) {
	fake := testsupport.NewBackend(t)
	fake.AddVideo("a.mp4", []byte("aaaa"))
	fake.AddVideo("b.mp4", []byte("bb"))
	client := newClient(t, fake.URL())
	ctx := context.Background()

	videos, err := client.ListVideos(ctx)
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(videos) != 2 || videos[0].Filename != "b.mp4" || videos[1].Size != 4 {
		t.Fatalf("unexpected listing %+v", videos)
	}

	if err := client.DeleteVideo(ctx, "a.mp4"); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}
	err = client.DeleteVideo(ctx, "missing.mp4")
	var serverErr *backend.ServerError
	if !errors.As(err, &serverErr) || serverErr.Message != "File not found" || serverErr.Status != http.StatusNotFound {
		t.Fatalf("expected not-found ServerError, got %#v", err)
	}
	if got := fake.Filenames(); len(got) != 1 || got[0] != "b.mp4" {
		t.Fatalf("unexpected remaining %v", got)
	}
}

func TestOpenDownload(t *testing.T) {
	fake := testsupport.NewBackend(t)
	fake.AddVideo("credits_001.mp4", []byte("payload"))
	client := newClient(t, fake.URL())

	body, err := client.OpenDownload(context.Background(), "credits_001.mp4")
	if err != nil {
		t.Fatalf("OpenDownload: %v", err)
	}
	data, _ := io.ReadAll(body)
	body.Close()
	if string(data) != "payload" {
		t.Fatalf("unexpected body %q", data)
	}

	_, err = client.OpenDownload(context.Background(), "nope.mp4")
	var statusErr *backend.StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
}

func TestFFmpegAndPatrons(t *testing.T) {
	fake := testsupport.NewBackend(t)
	fake.SetFFmpeg(false)
	fake.SetPatronCount(7)
	client := newClient(t, fake.URL())
	ctx := context.Background()

	installed, err := client.CheckFFmpeg(ctx)
	if err != nil || installed {
		t.Fatalf("expected missing ffmpeg, got %v %v", installed, err)
	}
	if err := client.InstallFFmpeg(ctx); err != nil {
		t.Fatalf("InstallFFmpeg: %v", err)
	}
	if installed, _ := client.CheckFFmpeg(ctx); !installed {
		t.Fatal("expected ffmpeg after install")
	}

	refreshed, err := client.RefreshPatrons(ctx)
	if err != nil || refreshed.Count != 7 {
		t.Fatalf("unexpected refresh %+v %v", refreshed, err)
	}
	count, err := client.PatronCount(ctx)
	if err != nil || count != 7 {
		t.Fatalf("unexpected count %d %v", count, err)
	}
	if fake.Count("GET /check-ffmpeg") != 2 {
		t.Fatalf("expected two probes, got %d", fake.Count("GET /check-ffmpeg"))
	}
}

func TestInstallFailureCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()
	client := newClient(t, srv.URL)

	err := client.InstallFFmpeg(context.Background())
	if err == nil || err.Error() != "Installation failed." {
		t.Fatalf("unexpected error %v", err)
	}
}
