package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"creditspanel/internal/backend"
)

const backendCheckTimeout = 5 * time.Second

// CheckBackend probes /check-ffmpeg and reports reachability and FFmpeg
// availability as two results. FFmpeg is reported as failed when the
// backend is unreachable.
func CheckBackend(ctx context.Context, baseURL string) []Result {
	const (
		serverName = "Backend"
		ffmpegName = "FFmpeg"
	)

	client, err := backend.New(baseURL, backend.WithTimeout(backendCheckTimeout))
	if err != nil {
		return []Result{
			{Name: serverName, Detail: err.Error()},
			{Name: ffmpegName, Detail: "unknown (backend not configured)"},
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, backendCheckTimeout)
	defer cancel()

	installed, err := client.CheckFFmpeg(checkCtx)
	if err != nil {
		return []Result{
			{Name: serverName, Detail: fmt.Sprintf("%s (%s)", client.BaseURL(), summarizeBackendError(err))},
			{Name: ffmpegName, Detail: "unknown (backend offline)"},
		}
	}
	results := []Result{{Name: serverName, Passed: true, Detail: fmt.Sprintf("%s (reachable)", client.BaseURL())}}
	if installed {
		results = append(results, Result{Name: ffmpegName, Passed: true, Detail: "installed"})
	} else {
		results = append(results, Result{Name: ffmpegName, Detail: "missing (run: creditspanel ffmpeg install)"})
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeBackendError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	if code, ok := backend.StatusCode(err); ok {
		return fmt.Sprintf("HTTP %d", code)
	}
	if backend.IsUnavailable(err) {
		return "offline"
	}
	return err.Error()
}
