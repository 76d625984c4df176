package logs

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Filter selects log lines. The zero value matches everything.
type Filter struct {
	// Level is the minimum level kept; nil keeps every level.
	Level     slog.Leveler
	Component string
}

// Match reports whether line passes the filter. Lines whose level cannot be
// determined are kept.
func (f Filter) Match(line string) bool {
	if f.Level == nil && f.Component == "" {
		return true
	}
	level, component, ok := parseLine(line)
	if !ok {
		return f.Component == ""
	}
	if f.Level != nil && level < f.Level.Level() {
		return false
	}
	return f.Component == "" || strings.EqualFold(component, f.Component)
}

// parseLine understands "ts LEVEL component: msg" and slog JSON lines.
func parseLine(line string) (slog.Level, string, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var record struct {
			Level     string `json:"level"`
			Component string `json:"component"`
		}
		if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
			return 0, "", false
		}
		level, ok := parseLevel(record.Level)
		return level, record.Component, ok
	}

	fields := strings.SplitN(trimmed, " ", 4)
	if len(fields) < 3 {
		return 0, "", false
	}
	level, ok := parseLevel(fields[1])
	if !ok {
		return 0, "", false
	}
	var component string
	if name, found := strings.CutSuffix(fields[2], ":"); found {
		component = name
	}
	return level, component, true
}

func parseLevel(value string) (slog.Level, bool) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return 0, false
	}
	return level, true
}
