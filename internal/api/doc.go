// Package api defines the wire-format types exchanged with the credits
// rendering backend.
//
// # Key Types
//
// GenerationRequest: the form snapshot posted to /generate. It is a value
// type; custom names travel as newline-separated text on the wire and as a
// slice in Go.
//
// GenerateResponse, VideoListResponse, DeleteResponse, FFmpegStatus,
// PatronRefreshResponse: response bodies for the REST endpoints the panel
// consumes.
//
// # Design Notes
//
// JSON tags use the backend's snake_case names. ValidateRequest mirrors the
// backend's parameter bounds so obviously invalid forms fail before any
// network round-trip.
package api
