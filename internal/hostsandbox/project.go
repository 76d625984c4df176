package hostsandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"creditspanel/internal/fileutil"
	"creditspanel/internal/timeline"
)

// LoadProject reads a snapshot written by SaveProject. A missing file yields
// an app with no project open.
func LoadProject(path string) (*timeline.MemoryApp, error) {
	app := timeline.NewMemoryApp()
	if path == "" {
		return app, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return app, nil
		}
		return nil, fmt.Errorf("read project file: %w", err)
	}
	var snapshot timeline.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse project file %s: %w", path, err)
	}
	app.Restore(snapshot)
	return app, nil
}

// SaveProject atomically writes app's snapshot to path.
func SaveProject(path string, app *timeline.MemoryApp) error {
	data, err := json.MarshalIndent(app.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}
	return fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
