package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"creditspanel/internal/api"
)

// Backend is an in-memory fake of the rendering service's REST surface.
// Generated artifacts are listed newest first, like the real service.
type Backend struct {
	Server *httptest.Server

	mu             sync.Mutex
	videos         []api.VideoRecord
	payloads       map[string][]byte
	counts         map[string]int
	generated      []api.GenerationRequest
	ffmpeg         bool
	patrons        int
	nextFilename   string
	generateErr    string
	downloadStatus int
	sequence       int
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		payloads: make(map[string][]byte),
		counts:   make(map[string]int),
		ffmpeg:   true,
		patrons:  42,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", b.handleGenerate)
	mux.HandleFunc("GET /download/{filename}", b.handleDownload)
	mux.HandleFunc("GET /api/videos", b.handleList)
	mux.HandleFunc("DELETE /api/videos/{filename}", b.handleDelete)
	mux.HandleFunc("GET /check-ffmpeg", b.handleCheckFFmpeg)
	mux.HandleFunc("POST /install-ffmpeg", b.handleInstall)
	mux.HandleFunc("POST /refresh-patrons", b.handleRefreshPatrons)
	mux.HandleFunc("GET /patron-count", b.handlePatronCount)
	b.Server = httptest.NewServer(b.count(mux))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the fake's base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Count returns how many requests hit "METHOD /path" (path without parameters,
// e.g. "GET /download").
func (b *Backend) Count(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[route]
}

// Total returns the number of requests served.
func (b *Backend) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.counts {
		total += n
	}
	return total
}

// AddVideo registers an artifact with the given content.
func (b *Backend) AddVideo(filename string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addLocked(filename, data)
}

// Filenames lists registered artifacts in listing order.
func (b *Backend) Filenames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.videos))
	for _, v := range b.videos {
		names = append(names, v.Filename)
	}
	return names
}

// Generated returns the requests received by /generate.
func (b *Backend) Generated() []api.GenerationRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.GenerationRequest(nil), b.generated...)
}

// SetFFmpeg sets what /check-ffmpeg reports.
func (b *Backend) SetFFmpeg(installed bool) {
	b.mu.Lock()
	b.ffmpeg = installed
	b.mu.Unlock()
}

// SetPatronCount sets the patron count reported by generate and refresh.
func (b *Backend) SetPatronCount(n int) {
	b.mu.Lock()
	b.patrons = n
	b.mu.Unlock()
}

// SetNextFilename fixes the filename of the next generated artifact.
func (b *Backend) SetNextFilename(name string) {
	b.mu.Lock()
	b.nextFilename = name
	b.mu.Unlock()
}

// SetGenerateError makes /generate answer {error: msg}. Empty clears it.
func (b *Backend) SetGenerateError(msg string) {
	b.mu.Lock()
	b.generateErr = msg
	b.mu.Unlock()
}

// SetDownloadStatus makes /download answer with status. Zero restores normal behaviour.
func (b *Backend) SetDownloadStatus(status int) {
	b.mu.Lock()
	b.downloadStatus = status
	b.mu.Unlock()
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + routePath(r.URL.Path)
		b.mu.Lock()
		b.counts[route]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func routePath(path string) string {
	for _, prefix := range []string{"/download/", "/api/videos/"} {
		if len(path) > len(prefix) && path[:len(prefix)] == prefix {
			return prefix[:len(prefix)-1]
		}
	}
	return path
}

func (b *Backend) addLocked(filename string, data []byte) {
	rec := api.VideoRecord{
		Filename:     filename,
		VideoURL:     "/output/" + filename,
		DownloadURL:  "/download/" + filename,
		ThumbnailURL: "/output/thumbnails/" + filename + ".jpg",
		Size:         int64(len(data)),
		Created:      time.Now().UTC().Format("2006-01-02T15:04:05.000000"),
	}
	b.videos = append([]api.VideoRecord{rec}, b.videos...)
	b.payloads[filename] = data
}

func (b *Backend) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generated = append(b.generated, req)
	if b.generateErr != "" {
		writeJSON(w, http.StatusOK, api.GenerateResponse{Error: b.generateErr})
		return
	}
	b.sequence++
	filename := b.nextFilename
	b.nextFilename = ""
	if filename == "" {
		filename = fmt.Sprintf("credits_%03d.mp4", b.sequence)
	}
	b.addLocked(filename, MediaBytes(4096))
	writeJSON(w, http.StatusOK, api.GenerateResponse{
		Success:     true,
		VideoURL:    "/output/" + filename,
		Filename:    filename,
		PatronCount: b.patrons,
	})
}

func (b *Backend) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	b.mu.Lock()
	status := b.downloadStatus
	data, ok := b.payloads[filename]
	b.mu.Unlock()
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=patreon_credits_%s", filename))
	_, _ = w.Write(data)
}

func (b *Backend) handleList(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	videos := append([]api.VideoRecord{}, b.videos...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, api.VideoListResponse{Videos: videos})
}

func (b *Backend) handleDelete(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, v := range b.videos {
		if v.Filename == filename {
			b.videos = append(b.videos[:i], b.videos[i+1:]...)
			delete(b.payloads, filename)
			writeJSON(w, http.StatusOK, api.DeleteResponse{Success: true})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, api.DeleteResponse{Error: "File not found"})
}

func (b *Backend) handleCheckFFmpeg(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	installed := b.ffmpeg
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, api.FFmpegStatus{Installed: installed})
}

func (b *Backend) handleInstall(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	b.ffmpeg = true
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, api.InstallResponse{Success: true})
}

func (b *Backend) handleRefreshPatrons(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	count := b.patrons
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, api.PatronRefreshResponse{Count: count})
}

func (b *Backend) handlePatronCount(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	count := b.patrons
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, api.PatronCountResponse{Count: count})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
