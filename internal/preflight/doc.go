// Package preflight provides readiness checks for the filesystem paths and
// the rendering backend the panel depends on.
//
// The CLI "creditspanel status" command renders every Result, and "panel run"
// refuses to start when the user data directory check fails. Backend checks
// never fail startup: the server may come up after the panel.
package preflight
