package transfer

import (
	"path/filepath"
	"strings"

	"creditspanel/internal/config"
)

// DestinationPath joins destDir and "<prefix>_<filename>" using the host's
// separator convention.
func DestinationPath(destDir, prefix, filename, style string) string {
	name := filename
	if prefix != "" {
		name = prefix + "_" + filename
	}
	switch style {
	case config.PathStyleWindows:
		dir := strings.TrimRight(strings.ReplaceAll(destDir, "/", `\`), `\`)
		return dir + `\` + name
	case config.PathStylePosix:
		dir := strings.TrimRight(strings.ReplaceAll(destDir, `\`, "/"), "/")
		return dir + "/" + name
	default:
		return filepath.Join(filepath.FromSlash(destDir), name)
	}
}

func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
