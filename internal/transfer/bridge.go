package transfer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"

	"creditspanel/internal/backend"
	"creditspanel/internal/config"
	"creditspanel/internal/fileutil"
	"creditspanel/internal/logging"
	"creditspanel/internal/services"
)

const (
	component = "transfer"
	// LockFileName guards a destination directory against concurrent transfers.
	LockFileName = ".creditspanel-transfer.lock"
)

// ArtifactRef names the artifact to transfer.
type ArtifactRef struct {
	Filename string
}

// Downloader opens the artifact body. Non-2xx responses must surface as
// *backend.StatusError.
type Downloader interface {
	OpenDownload(ctx context.Context, filename string) (io.ReadCloser, error)
}

// Sink decodes a base64 payload and writes it to path.
type Sink interface {
	WriteBase64(ctx context.Context, path, payload string) error
}

// Bridge performs fetch, encode, and persist for one artifact at a time.
type Bridge struct {
	downloader   Downloader
	sink         Sink
	prefix       string
	pathStyle    string
	minFreeBytes int64
	logger       *slog.Logger
}

// Option customizes a Bridge.
type Option func(*Bridge)

// WithFilePrefix sets the fixed prefix of persisted filenames.
func WithFilePrefix(prefix string) Option {
	return func(b *Bridge) { b.prefix = strings.TrimSpace(prefix) }
}

// WithPathStyle selects the separator convention of the written path.
func WithPathStyle(style string) Option {
	return func(b *Bridge) { b.pathStyle = style }
}

// WithMinFreeBytes refuses writes that would leave less than n bytes free.
func WithMinFreeBytes(n int64) Option {
	return func(b *Bridge) { b.minFreeBytes = n }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// New builds a bridge that downloads through d and persists through sink.
func New(d Downloader, sink Sink, opts ...Option) *Bridge {
	b := &Bridge{downloader: d, sink: sink, prefix: "patreon_credits", pathStyle: config.PathStyleNative}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.NewComponentLogger(b.logger, component)
	return b
}

// FetchAndPersist downloads ref, encodes it, and writes it under destDir.
// It returns the path handed to the sink. A failed download writes nothing.
func (b *Bridge) FetchAndPersist(ctx context.Context, ref ArtifactRef, destDir string) (string, error) {
	filename := strings.TrimSpace(ref.Filename)
	if !validFilename(filename) {
		return "", services.Wrap(services.ErrValidation, component, "fetch", fmt.Sprintf("invalid artifact filename %q", ref.Filename), nil)
	}
	if strings.TrimSpace(destDir) == "" {
		return "", &LocalWriteFailedError{Message: "destination directory is not set"}
	}
	logger := logging.WithContext(ctx, b.logger).With(logging.String(logging.FieldFilename, filename))

	unlock, err := b.lock(destDir)
	if err != nil {
		return "", err
	}
	defer unlock()

	body, err := b.downloader.OpenDownload(ctx, filename)
	if err != nil {
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) {
			logger.Warn("artifact download rejected", logging.Int("status", statusErr.Status))
			return "", &DownloadFailedError{Status: statusErr.Status}
		}
		return "", services.Wrap(services.ErrTransport, component, "fetch", "download", err)
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return "", services.Wrap(services.ErrTransport, component, "fetch", "read body", err)
	}
	logger.Debug("artifact downloaded", logging.Int("bytes", len(data)))

	payload := base64.StdEncoding.EncodeToString(data)
	target := DestinationPath(destDir, b.prefix, filename, b.pathStyle)

	if err := b.checkFreeSpace(destDir, int64(len(data))); err != nil {
		return "", err
	}

	if err := b.sink.WriteBase64(ctx, target, payload); err != nil {
		var lw *LocalWriteFailedError
		if errors.As(err, &lw) {
			return "", err
		}
		logger.Warn("artifact write failed", logging.Error(err))
		return "", &LocalWriteFailedError{Path: target, Message: err.Error()}
	}
	logger.Info("artifact persisted",
		logging.String("path", target),
		logging.String("size", humanize.IBytes(uint64(len(data)))),
		logging.Int64("bytes", int64(len(data))),
	)
	return target, nil
}

func (b *Bridge) lock(destDir string) (func(), error) {
	local := filepath.FromSlash(destDir)
	if err := os.MkdirAll(local, 0o755); err != nil {
		return nil, &LocalWriteFailedError{Message: fmt.Sprintf("create destination directory: %v", err)}
	}
	fl := flock.New(filepath.Join(local, LockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, &LocalWriteFailedError{Message: fmt.Sprintf("lock destination directory: %v", err)}
	}
	if !locked {
		return nil, services.Wrap(services.ErrBusy, component, "fetch", "another transfer is writing to "+destDir, nil)
	}
	return func() { _ = fl.Unlock() }, nil
}

func (b *Bridge) checkFreeSpace(destDir string, size int64) error {
	if b.minFreeBytes <= 0 {
		return nil
	}
	free, err := fileutil.FreeBytes(filepath.FromSlash(destDir))
	if err != nil || free < 0 {
		return nil
	}
	if free-size < b.minFreeBytes {
		return &LocalWriteFailedError{Message: fmt.Sprintf("insufficient free space: %s available, %s needed plus %s reserve",
			humanize.IBytes(uint64(free)), humanize.IBytes(uint64(size)), humanize.IBytes(uint64(b.minFreeBytes)))}
	}
	return nil
}
