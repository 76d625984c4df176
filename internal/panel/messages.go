package panel

import (
	"errors"
	"fmt"
	"strings"

	"creditspanel/internal/backend"
	"creditspanel/internal/generation"
	"creditspanel/internal/hostbridge"
	"creditspanel/internal/services"
	"creditspanel/internal/transfer"
)

// Banner texts.
const (
	MsgEmptyMessage      = "Please enter a header message."
	MsgGenerating        = "Generating credits video..."
	MsgGeneratedFmt      = "Video generated! %d patrons."
	MsgImporting         = "Downloading and importing..."
	MsgRefreshing        = "Refreshing patron list..."
	MsgRefreshedFmt      = "Patron list refreshed: %d patrons."
	MsgInstalling        = "Installing FFmpeg..."
	MsgInstalled         = "FFmpeg installed."
	MsgBusy              = "Operation already in progress."
	MsgServerOK          = "Connected (FFmpeg OK)"
	MsgServerNoFFmpeg    = "Connected (FFmpeg missing!)"
	MsgServerOffline     = "Server offline - start the backend"
	MsgProjectUnknown    = "Project info unavailable"
	MsgNoCurrentArtifact = "No video to import. Generate one first."
)

// UserMessage converts err into the text shown on the status banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		downloadErr *transfer.DownloadFailedError
		writeErr    *transfer.LocalWriteFailedError
		opErr       *hostbridge.OperationError
		protoErr    *hostbridge.ProtocolError
		serverErr   *backend.ServerError
	)
	switch {
	case errors.Is(err, generation.ErrEmptyMessage):
		return MsgEmptyMessage
	case errors.Is(err, ErrNoCurrentArtifact):
		return MsgNoCurrentArtifact
	case errors.Is(err, services.ErrBusy):
		return MsgBusy
	case errors.As(err, &downloadErr):
		return fmt.Sprintf("Download failed: HTTP %d", downloadErr.Status)
	case errors.As(err, &writeErr):
		return "File save failed: " + writeErr.Message
	case errors.As(err, &opErr):
		return opErr.Error()
	case errors.As(err, &protoErr):
		return protoErr.Error()
	case errors.As(err, &serverErr):
		return "Error: " + serverErr.Message
	case backend.IsUnavailable(err):
		return "Failed to connect: " + err.Error()
	default:
		return "Error: " + strings.TrimSpace(err.Error())
	}
}

func generatedMessage(count int) string {
	return fmt.Sprintf(MsgGeneratedFmt, count)
}

func refreshedMessage(count int) string {
	return fmt.Sprintf(MsgRefreshedFmt, count)
}
