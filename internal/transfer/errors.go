package transfer

import (
	"fmt"

	"creditspanel/internal/services"
)

// DownloadFailedError reports a non-2xx response to the artifact download.
type DownloadFailedError struct {
	Status int
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("download failed: HTTP %d", e.Status)
}

// Is classifies DownloadFailedError as a transport failure.
func (e *DownloadFailedError) Is(target error) bool {
	return target == services.ErrTransport
}

// LocalWriteFailedError reports a failure to encode or persist the artifact.
type LocalWriteFailedError struct {
	Path    string
	Message string
}

func (e *LocalWriteFailedError) Error() string {
	return e.Message
}

// Is classifies LocalWriteFailedError as a local write failure.
func (e *LocalWriteFailedError) Is(target error) bool {
	return target == services.ErrLocalWrite
}
