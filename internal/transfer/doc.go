// Package transfer moves one artifact's bytes from the backend into the host
// application's user-data directory.
//
// The host scripting sandbox accepts only string arguments, so the bridge
// downloads the artifact fully into memory, base64-encodes it, and hands the
// payload to a Sink that decodes and writes it in one atomic step. Steps run
// strictly in order and nothing is retried. A cross-process file lock on the
// destination directory keeps concurrent panels from interleaving transfers.
package transfer
