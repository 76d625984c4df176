package api

// GenerateResponse is the payload returned by POST /generate. Error is set
// instead of the artifact fields when the backend rejects the request.
type GenerateResponse struct {
	Success     bool   `json:"success,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	Filename    string `json:"filename,omitempty"`
	PatronCount int    `json:"patron_count"`
	Error       string `json:"error,omitempty"`
}

// VideoRecord is one artifact entry of GET /api/videos as the backend emits it.
type VideoRecord struct {
	Filename     string `json:"filename"`
	VideoURL     string `json:"video_url,omitempty"`
	DownloadURL  string `json:"download_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Size         int64  `json:"size"`
	Created      string `json:"created,omitempty"`
}

// VideoListResponse wraps the artifact listing.
type VideoListResponse struct {
	Videos []VideoRecord `json:"videos"`
	Error  string        `json:"error,omitempty"`
}

// DeleteResponse is returned by DELETE /api/videos/<filename>.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// FFmpegStatus is the liveness/capability probe payload of GET /check-ffmpeg.
type FFmpegStatus struct {
	Installed bool `json:"installed"`
}

// InstallResponse is returned by POST /install-ffmpeg.
type InstallResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PatronRefreshResponse is returned by POST /refresh-patrons.
type PatronRefreshResponse struct {
	Count   int      `json:"count"`
	Patrons []string `json:"patrons,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// PatronCountResponse is returned by GET /patron-count.
type PatronCountResponse struct {
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the generic {error} body the backend sends on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
