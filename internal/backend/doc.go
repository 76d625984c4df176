// Package backend is the HTTP client for the credits rendering service.
//
// It covers the whole REST surface the panel consumes (generation, artifact
// listing and deletion, binary download, FFmpeg probe/install, patron
// refresh) and classifies failures: unreachable hosts and bare non-2xx
// replies are transport errors, while {error} payloads become ServerError
// with the backend's message preserved verbatim.
package backend
