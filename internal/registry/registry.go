package registry

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"creditspanel/internal/api"
	"creditspanel/internal/logging"
	"creditspanel/internal/services"
)

const component = "registry"

// PlaceholderThumbnail is shown when the backend has no thumbnail for an artifact.
const PlaceholderThumbnail = "/static/img/video-placeholder.svg"

// ErrEmptyFilename rejects deletes that name no artifact.
var ErrEmptyFilename = errors.New("artifact filename is required")

// Artifact is the client-side, possibly stale copy of one generated video.
type Artifact struct {
	Filename     string
	VideoURL     string
	DownloadURL  string
	ThumbnailURL string
	Size         int64
	Created      time.Time
	CreatedRaw   string
}

// Backend is the subset of the REST client the registry needs.
type Backend interface {
	ListVideos(ctx context.Context) ([]api.VideoRecord, error)
	DeleteVideo(ctx context.Context, filename string) error
}

// Client lists and deletes artifacts.
type Client struct {
	backend Backend
	logger  *slog.Logger
}

// New wraps backend.
func New(backend Backend, logger *slog.Logger) *Client {
	return &Client{backend: backend, logger: logging.NewComponentLogger(logger, component)}
}

// List fetches the full artifact list in server order.
func (c *Client) List(ctx context.Context) ([]Artifact, error) {
	records, err := c.backend.ListVideos(ctx)
	if err != nil {
		return nil, err
	}
	artifacts := make([]Artifact, 0, len(records))
	for _, rec := range records {
		artifact, ok := Normalize(rec)
		if !ok {
			logging.WithContext(ctx, c.logger).Warn("skipping artifact record without filename")
			continue
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// Delete removes filename from the backend registry.
func (c *Client) Delete(ctx context.Context, filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return services.Wrap(services.ErrValidation, component, "delete", "", ErrEmptyFilename)
	}
	if err := c.backend.DeleteVideo(ctx, filename); err != nil {
		return err
	}
	logging.WithContext(ctx, c.logger).Info("artifact deleted", logging.String(logging.FieldFilename, filename))
	return nil
}

// Normalize fills in derived URLs and parses the creation time. Records
// without a filename are rejected.
func Normalize(rec api.VideoRecord) (Artifact, bool) {
	filename := strings.TrimSpace(rec.Filename)
	if filename == "" {
		return Artifact{}, false
	}
	escaped := url.PathEscape(filename)
	artifact := Artifact{
		Filename:     filename,
		VideoURL:     firstNonEmpty(rec.VideoURL, "/output/"+escaped),
		DownloadURL:  firstNonEmpty(rec.DownloadURL, "/download/"+escaped),
		ThumbnailURL: firstNonEmpty(rec.ThumbnailURL, PlaceholderThumbnail),
		Size:         rec.Size,
		CreatedRaw:   rec.Created,
	}
	if rec.Size < 0 {
		artifact.Size = 0
	}
	artifact.Created, _ = ParseCreated(rec.Created)
	return artifact, true
}

var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseCreated accepts RFC 3339 and the zone-less ISO forms the backend emits.
// Zone-less values are read as local time.
func ParseCreated(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range createdLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
