// Package logging assembles structured slog loggers used across the credits panel.
//
// It owns the console and JSON handlers (colour output via tint when attached
// to a terminal), centralizes level and output plumbing, and exposes
// context-aware helpers so operation code can tag log lines with the panel
// action, UI surface, and correlation ID. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
