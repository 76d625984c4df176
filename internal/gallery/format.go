package gallery

import (
	"github.com/dustin/go-humanize"

	"creditspanel/internal/registry"
)

// Row is an artifact formatted for display.
type Row struct {
	Filename     string `json:"filename"`
	Created      string `json:"created"`
	Age          string `json:"age,omitempty"`
	Size         string `json:"size"`
	VideoURL     string `json:"video_url"`
	DownloadURL  string `json:"download_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// FormatRow renders a's size and creation time for display. Unparseable
// timestamps are shown as the backend sent them.
func FormatRow(a registry.Artifact) Row {
	row := Row{
		Filename:     a.Filename,
		Size:         humanize.IBytes(uint64(a.Size)),
		VideoURL:     a.VideoURL,
		DownloadURL:  a.DownloadURL,
		ThumbnailURL: a.ThumbnailURL,
		Created:      a.CreatedRaw,
	}
	if !a.Created.IsZero() {
		row.Created = a.Created.Local().Format("Jan 2, 2006 15:04")
		row.Age = humanize.Time(a.Created)
	}
	return row
}
