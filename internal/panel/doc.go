// Package panel is the control-flow glue behind both UI surfaces.
//
// A Panel owns the status banner, the import control's visibility, the
// server and project status lines, and the two polling loops. It drives the
// generate, import, patron-refresh and FFmpeg-install actions through the
// generation orchestrator, the transfer bridge and the host adapter, and it
// converts every failure into banner text at this boundary. Nothing here
// retries; each failure waits for the next user action.
package panel
