package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creditspanel/internal/api"
	"creditspanel/internal/logging"
	"creditspanel/internal/services"
)

const component = "backend"

// ErrNotConfigured is returned by a nil client.
var ErrNotConfigured = errors.New("backend url not configured")

// Client talks to the credits rendering backend over its REST surface.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New parses baseURL (scheme optional) and returns a client rooted at it.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrNotConfigured
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/")
	base.RawQuery = ""
	base.Fragment = ""

	c := &Client{
		base: base,
		// No timeout by default: generation can legitimately take minutes.
		http: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, component)
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.base.String()
}

// ResolveURL turns a backend-relative URL such as /output/x.mp4 into an absolute one.
func (c *Client) ResolveURL(ref string) string {
	if c == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil || parsed.IsAbs() {
		return ref
	}
	if strings.HasPrefix(parsed.Path, "/") {
		parsed.Path = c.base.Path + parsed.Path
	}
	return c.base.ResolveReference(parsed).String()
}

// DownloadURL returns the absolute download URL for filename.
func (c *Client) DownloadURL(filename string) string {
	return c.ResolveURL("/download/" + url.PathEscape(filename))
}

// Generate posts req to /generate. A structured {error} payload becomes a
// ServerError; a non-2xx status without one becomes a StatusError.
func (c *Client) Generate(ctx context.Context, req api.GenerationRequest) (api.GenerateResponse, error) {
	var resp api.GenerateResponse
	status, err := c.doJSON(ctx, "generate", http.MethodPost, "/generate", req, &resp)
	if err != nil {
		return api.GenerateResponse{}, err
	}
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		return api.GenerateResponse{}, &ServerError{Status: status, Message: msg}
	}
	if status >= 300 {
		return api.GenerateResponse{}, &StatusError{Method: http.MethodPost, Path: "/generate", Status: status}
	}
	return resp, nil
}

// ListVideos returns the raw artifact records from /api/videos.
func (c *Client) ListVideos(ctx context.Context) ([]api.VideoRecord, error) {
	var resp api.VideoListResponse
	status, err := c.doJSON(ctx, "list videos", http.MethodGet, "/api/videos", nil, &resp)
	if err != nil {
		return nil, err
	}
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		return nil, &ServerError{Status: status, Message: msg}
	}
	if status >= 300 {
		return nil, &StatusError{Method: http.MethodGet, Path: "/api/videos", Status: status}
	}
	return resp.Videos, nil
}

// DeleteVideo deletes filename from the registry. Anything other than
// {success: true} is an error.
func (c *Client) DeleteVideo(ctx context.Context, filename string) error {
	path := "/api/videos/" + url.PathEscape(filename)
	var resp api.DeleteResponse
	status, err := c.doJSON(ctx, "delete video", http.MethodDelete, path, nil, &resp)
	if err != nil {
		return err
	}
	if resp.Success {
		return nil
	}
	msg := strings.TrimSpace(resp.Error)
	if msg == "" {
		if status >= 300 {
			return &StatusError{Method: http.MethodDelete, Path: path, Status: status}
		}
		msg = "delete failed"
	}
	return &ServerError{Status: status, Message: msg}
}

// CheckFFmpeg polls /check-ffmpeg. It doubles as the server liveness probe.
func (c *Client) CheckFFmpeg(ctx context.Context) (bool, error) {
	var resp api.FFmpegStatus
	status, err := c.doJSON(ctx, "check ffmpeg", http.MethodGet, "/check-ffmpeg", nil, &resp)
	if err != nil {
		return false, err
	}
	if status >= 300 {
		return false, &StatusError{Method: http.MethodGet, Path: "/check-ffmpeg", Status: status}
	}
	return resp.Installed, nil
}

// InstallFFmpeg asks the backend to download and install FFmpeg.
func (c *Client) InstallFFmpeg(ctx context.Context) error {
	var resp api.InstallResponse
	status, err := c.doJSON(ctx, "install ffmpeg", http.MethodPost, "/install-ffmpeg", nil, &resp)
	if err != nil {
		return err
	}
	if resp.Success {
		return nil
	}
	msg := strings.TrimSpace(resp.Error)
	if msg == "" {
		msg = "Installation failed."
	}
	return &ServerError{Status: status, Message: msg}
}

// RefreshPatrons forces the backend to refetch the patron list.
func (c *Client) RefreshPatrons(ctx context.Context) (api.PatronRefreshResponse, error) {
	var resp api.PatronRefreshResponse
	status, err := c.doJSON(ctx, "refresh patrons", http.MethodPost, "/refresh-patrons", nil, &resp)
	if err != nil {
		return api.PatronRefreshResponse{}, err
	}
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		return api.PatronRefreshResponse{}, &ServerError{Status: status, Message: msg}
	}
	if status >= 300 {
		return api.PatronRefreshResponse{}, &StatusError{Method: http.MethodPost, Path: "/refresh-patrons", Status: status}
	}
	return resp, nil
}

// PatronCount returns the cached patron count.
func (c *Client) PatronCount(ctx context.Context) (int, error) {
	var resp api.PatronCountResponse
	status, err := c.doJSON(ctx, "patron count", http.MethodGet, "/patron-count", nil, &resp)
	if err != nil {
		return 0, err
	}
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		return 0, &ServerError{Status: status, Message: msg}
	}
	return resp.Count, nil
}

// OpenDownload issues the binary GET for filename. The caller owns the body.
// A non-2xx response is returned as a StatusError and the body is discarded.
func (c *Client) OpenDownload(ctx context.Context, filename string) (io.ReadCloser, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(filename), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, "download", "build request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, "download", "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &StatusError{Method: http.MethodGet, Path: req.URL.Path, Status: resp.StatusCode}
	}
	return resp.Body, nil
}

func (c *Client) doJSON(ctx context.Context, operation, method, path string, body any, out any) (int, error) {
	if c == nil {
		return 0, ErrNotConfigured
	}
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s request: %w", operation, err)
		}
		payload = bytes.NewReader(data)
	}

	endpoint := c.ResolveURL(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return 0, services.Wrap(services.ErrTransport, component, operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.WithContext(ctx, c.logger).Debug("backend request failed",
			logging.String("operation", operation),
			logging.Error(err),
		)
		return 0, services.Wrap(services.ErrTransport, component, operation, "", err)
	}
	defer resp.Body.Close()

	logging.WithContext(ctx, c.logger).Debug("backend request",
		logging.String("operation", operation),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
	)

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode >= 300 {
			return resp.StatusCode, &StatusError{Method: method, Path: req.URL.Path, Status: resp.StatusCode}
		}
		return resp.StatusCode, services.Wrap(services.ErrTransport, component, operation, "decode response", err)
	}
	return resp.StatusCode, nil
}
