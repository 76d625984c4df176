package config

import (
	"fmt"
	"os"
	"strings"
)

// ServerEnvVar overrides server.base_url when set.
const ServerEnvVar = "CREDITSPANEL_SERVER"

func (c *Config) normalize() error {
	c.normalizeServer()
	if err := c.normalizeHost(); err != nil {
		return err
	}
	c.normalizeTransfer()
	c.normalizeGeneration()
	if err := c.normalizeSettings(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeServer() {
	if value, ok := os.LookupEnv(ServerEnvVar); ok && strings.TrimSpace(value) != "" {
		c.Server.BaseURL = value
	}
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaultServerBaseURL
	}
	if c.Server.RequestTimeout < 0 {
		c.Server.RequestTimeout = 0
	}
}

func (c *Config) normalizeHost() error {
	var err error
	if strings.TrimSpace(c.Host.UserDataDir) == "" {
		c.Host.UserDataDir = defaultUserDataDir
	}
	if c.Host.UserDataDir, err = expandPath(c.Host.UserDataDir); err != nil {
		return fmt.Errorf("host.user_data_dir: %w", err)
	}
	if strings.TrimSpace(c.Host.ProjectFile) == "" {
		c.Host.ProjectFile = defaultProjectFile
	}
	if c.Host.ProjectFile, err = expandPath(c.Host.ProjectFile); err != nil {
		return fmt.Errorf("host.project_file: %w", err)
	}
	c.Host.PathStyle = strings.ToLower(strings.TrimSpace(c.Host.PathStyle))
	if c.Host.PathStyle == "" {
		c.Host.PathStyle = defaultPathStyle
	}
	if c.Host.EvalTimeout < 0 {
		c.Host.EvalTimeout = 0
	}
	return nil
}

func (c *Config) normalizeTransfer() {
	c.Transfer.FilePrefix = strings.TrimSpace(c.Transfer.FilePrefix)
	if c.Transfer.FilePrefix == "" {
		c.Transfer.FilePrefix = defaultFilePrefix
	}
	if c.Transfer.MinFreeMiB < 0 {
		c.Transfer.MinFreeMiB = 0
	}
}

func (c *Config) normalizeGeneration() {
	g := &c.Generation
	g.Resolution = strings.TrimSpace(g.Resolution)
	g.NameAlign = strings.ToLower(strings.TrimSpace(g.NameAlign))
	g.BGColor = strings.TrimSpace(g.BGColor)
	g.MessageStyle.Font = strings.TrimSpace(g.MessageStyle.Font)
	g.MessageStyle.Align = strings.ToLower(strings.TrimSpace(g.MessageStyle.Align))
	g.PatronStyle.Font = strings.TrimSpace(g.PatronStyle.Font)
	g.PatronStyle.Align = strings.ToLower(strings.TrimSpace(g.PatronStyle.Align))
}

func (c *Config) normalizeSettings() error {
	var err error
	if strings.TrimSpace(c.Settings.Path) == "" {
		c.Settings.Path = defaultSettingsPath
	}
	if c.Settings.Path, err = expandPath(c.Settings.Path); err != nil {
		return fmt.Errorf("settings.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
