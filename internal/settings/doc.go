// Package settings persists panel state between runs in a small SQLite
// key/value database: the last submitted generation form and the most recent
// artifact reference. Unreadable entries are treated as absent so a corrupt
// value never blocks the panel.
package settings
