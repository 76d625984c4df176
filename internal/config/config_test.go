package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"creditspanel/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.ServerEnvVar, "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantUserData := filepath.Join(tempHome, ".local", "share", "creditspanel", "userdata")
	if cfg.Host.UserDataDir != wantUserData {
		t.Fatalf("unexpected user data dir: got %q want %q", cfg.Host.UserDataDir, wantUserData)
	}
	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Fatalf("unexpected base url: %q", cfg.Server.BaseURL)
	}
	if cfg.Host.PathStyle != config.PathStyleNative {
		t.Fatalf("unexpected path style: %q", cfg.Host.PathStyle)
	}
	if cfg.Transfer.FilePrefix != "patreon_credits" {
		t.Fatalf("unexpected file prefix: %q", cfg.Transfer.FilePrefix)
	}
	if !cfg.Panel.ConfirmDelete {
		t.Fatal("expected delete confirmation enabled by default")
	}
	if cfg.RequestTimeout() != 0 {
		t.Fatalf("expected unbounded request timeout, got %s", cfg.RequestTimeout())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Host.UserDataDir, filepath.Dir(cfg.Settings.Path), filepath.Dir(cfg.Host.ProjectFile)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv(config.ServerEnvVar, "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "creditspanel.toml")

	type payload struct {
		Server struct {
			BaseURL        string `toml:"base_url"`
			RequestTimeout int    `toml:"request_timeout"`
		} `toml:"server"`
		Host struct {
			PathStyle string `toml:"path_style"`
		} `toml:"host"`
		Generation struct {
			Duration int `toml:"duration"`
			Columns  int `toml:"columns"`
		} `toml:"generation"`
	}
	custom := payload{}
	custom.Server.BaseURL = "http://render.local:8080/"
	custom.Server.RequestTimeout = 45
	custom.Host.PathStyle = "Windows"
	custom.Generation.Duration = 30
	custom.Generation.Columns = 2
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Server.BaseURL != "http://render.local:8080" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Server.BaseURL)
	}
	if cfg.Host.PathStyle != config.PathStyleWindows {
		t.Fatalf("expected lowercased path style, got %q", cfg.Host.PathStyle)
	}
	defaults := cfg.GenerationDefaults()
	if defaults.Duration != 30 || defaults.Columns != 2 {
		t.Fatalf("unexpected generation defaults: %+v", defaults)
	}
	if defaults.Resolution != "1280x720" {
		t.Fatalf("expected untouched keys to keep defaults, got %q", defaults.Resolution)
	}
	if defaults.PatronStyle.Color != "#FFD700" {
		t.Fatalf("unexpected patron colour: %q", defaults.PatronStyle.Color)
	}
	if cfg.RequestTimeout().Seconds() != 45 {
		t.Fatalf("unexpected request timeout: %s", cfg.RequestTimeout())
	}
}

func TestServerEnvOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "creditspanel.toml")
	if err := os.WriteFile(configPath, []byte("[server]\nbase_url = \"http://file:5000\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.ServerEnvVar, "http://env:5000")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.BaseURL != "http://env:5000" {
		t.Fatalf("expected env override, got %q", cfg.Server.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "scheme",
			mutate:  func(c *config.Config) { c.Server.BaseURL = "ftp://host" },
			wantErr: "server.base_url must use http or https",
		},
		{
			name:    "path style",
			mutate:  func(c *config.Config) { c.Host.PathStyle = "dos" },
			wantErr: "host.path_style",
		},
		{
			name:    "poll interval",
			mutate:  func(c *config.Config) { c.Panel.GalleryPollInterval = 0 },
			wantErr: "panel.gallery_poll_interval must be positive",
		},
		{
			name:    "duration",
			mutate:  func(c *config.Config) { c.Generation.Duration = 90 },
			wantErr: "duration must be at most 60",
		},
		{
			name:    "log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "chatty" },
			wantErr: "logging.level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateSampleRoundTripsThroughLoad(t *testing.T) {
	t.Setenv(config.ServerEnvVar, "")
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	want := config.Default()
	if cfg.Generation != want.Generation {
		t.Fatalf("sample generation section drifted from defaults:\n got %+v\nwant %+v", cfg.Generation, want.Generation)
	}
	if cfg.Panel != want.Panel {
		t.Fatalf("sample panel section drifted: %+v", cfg.Panel)
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/videos")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(home, "videos") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
