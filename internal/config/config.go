package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains connection settings for the credits rendering backend.
type Server struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"` // seconds; 0 = unbounded
}

// Host contains settings for the host application's scripting sandbox.
type Host struct {
	UserDataDir string `toml:"user_data_dir"`
	ProjectFile string `toml:"project_file"`
	PathStyle   string `toml:"path_style"`   // native, windows, posix
	EvalTimeout int    `toml:"eval_timeout"` // seconds; 0 = unbounded
}

// Transfer contains settings for moving artifacts into the user data directory.
type Transfer struct {
	FilePrefix string `toml:"file_prefix"`
	MinFreeMiB int    `toml:"min_free_mib"`
}

// Panel contains polling and confirmation behaviour of the UI surfaces.
type Panel struct {
	ServerPollInterval  int  `toml:"server_poll_interval"`
	ProjectPollInterval int  `toml:"project_poll_interval"`
	GalleryPollInterval int  `toml:"gallery_poll_interval"`
	ConfirmDelete       bool `toml:"confirm_delete"`
}

// TextStyle mirrors one style record of the generation form.
type TextStyle struct {
	Font  string `toml:"font"`
	Size  int    `toml:"size"`
	Color string `toml:"color"`
	Bold  bool   `toml:"bold"`
	Align string `toml:"align"`
}

// Generation holds the form defaults used when no saved settings exist.
type Generation struct {
	Message        string    `toml:"message"`
	Duration       int       `toml:"duration"`
	Resolution     string    `toml:"resolution"`
	Columns        int       `toml:"columns"`
	NameAlign      string    `toml:"name_align"`
	TruncateLength int       `toml:"truncate_length"`
	WordWrap       bool      `toml:"word_wrap"`
	NameSpacing    bool      `toml:"name_spacing"`
	BGColor        string    `toml:"bg_color"`
	UseCache       bool      `toml:"use_cache"`
	MessageStyle   TextStyle `toml:"message_style"`
	PatronStyle    TextStyle `toml:"patron_style"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Settings locates the persisted form settings database.
type Settings struct {
	Path string `toml:"path"`
}

// Config encapsulates all configuration values for the credits panel.
//
// Configuration sections by subsystem:
//   - Server: backend base URL and request timeout
//   - Host: host scripting sandbox, user data directory, path convention
//   - Transfer: artifact file naming and free-space guard
//   - Panel: polling intervals and delete confirmation
//   - Generation: form defaults
//   - Logging: log format, level, and optional file directory
//   - Settings: persisted form settings database
type Config struct {
	Server     Server     `toml:"server"`
	Host       Host       `toml:"host"`
	Transfer   Transfer   `toml:"transfer"`
	Panel      Panel      `toml:"panel"`
	Generation Generation `toml:"generation"`
	Logging    Logging    `toml:"logging"`
	Settings   Settings   `toml:"settings"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("creditspanel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the panel writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Host.UserDataDir,
		filepath.Dir(c.Host.ProjectFile),
		filepath.Dir(c.Settings.Path),
	}
	if c.Logging.Dir != "" {
		dirs = append(dirs, c.Logging.Dir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestTimeout returns the backend request bound, zero when unbounded.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

// EvalTimeout returns the host scripting call bound, zero when unbounded.
func (c *Config) EvalTimeout() time.Duration {
	return time.Duration(c.Host.EvalTimeout) * time.Second
}

// ServerPollInterval returns the server health polling period.
func (c *Config) ServerPollInterval() time.Duration {
	return time.Duration(c.Panel.ServerPollInterval) * time.Second
}

// ProjectPollInterval returns the host project context polling period.
func (c *Config) ProjectPollInterval() time.Duration {
	return time.Duration(c.Panel.ProjectPollInterval) * time.Second
}

// GalleryPollInterval returns the embedded panel's artifact list polling period.
func (c *Config) GalleryPollInterval() time.Duration {
	return time.Duration(c.Panel.GalleryPollInterval) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
