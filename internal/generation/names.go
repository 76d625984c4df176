package generation

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"creditspanel/internal/services"
)

// ParseNamesFile reads custom patron names from a .txt (one per line) or
// .csv (comma or newline separated, optional quotes) upload.
func ParseNamesFile(name string, data []byte) ([]string, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = norm.NFC.String(text)

	var fields []string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		fields = splitLines(text)
	case ".csv":
		for _, line := range splitLines(text) {
			fields = append(fields, strings.Split(line, ",")...)
		}
	default:
		return nil, services.Wrap(services.ErrValidation, component, "names file", fmt.Sprintf("unsupported file type %q (want .txt or .csv)", filepath.Ext(name)), nil)
	}

	names := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = cleanName(field); field != "" {
			names = append(names, field)
		}
	}
	return names, nil
}

// MergeNames appends extra to existing, dropping blanks. Order is preserved.
func MergeNames(existing, extra []string) []string {
	out := make([]string, 0, len(existing)+len(extra))
	for _, group := range [][]string{existing, extra} {
		for _, name := range group {
			if name = strings.TrimSpace(norm.NFC.String(name)); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
}

func cleanName(field string) string {
	field = strings.TrimSpace(field)
	if len(field) > 0 && (field[0] == '"' || field[0] == '\'') {
		field = field[1:]
	}
	if n := len(field); n > 0 && (field[n-1] == '"' || field[n-1] == '\'') {
		field = field[:n-1]
	}
	return strings.TrimSpace(field)
}
