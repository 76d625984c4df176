// Package logs reads the panel's own log file for the `creditspanel logs`
// command.
//
// Last returns the final N lines with a ring buffer so large files are read
// once with bounded memory. Follow keeps polling from a byte offset and hands
// each new line to a callback until its context ends; a file that shrinks is
// treated as rotated and re-read from the start. Filter narrows lines by
// level and component for both the text and JSON log formats.
package logs
