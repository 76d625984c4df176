package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"creditspanel/internal/api"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateHost(); err != nil {
		return err
	}
	if err := c.validatePanel(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("server.base_url is invalid: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server.base_url must use http or https (got %q)", c.Server.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("server.base_url must include a host (got %q)", c.Server.BaseURL)
	}
	return nil
}

func (c *Config) validateHost() error {
	switch c.Host.PathStyle {
	case PathStyleNative, PathStyleWindows, PathStylePosix:
	default:
		return fmt.Errorf("host.path_style must be one of native, windows, posix (got %q)", c.Host.PathStyle)
	}
	if strings.TrimSpace(c.Host.UserDataDir) == "" {
		return errors.New("host.user_data_dir must be set")
	}
	return nil
}

func (c *Config) validatePanel() error {
	return ensurePositiveMap(map[string]int{
		"panel.server_poll_interval":  c.Panel.ServerPollInterval,
		"panel.project_poll_interval": c.Panel.ProjectPollInterval,
		"panel.gallery_poll_interval": c.Panel.GalleryPollInterval,
	})
}

func (c *Config) validateGeneration() error {
	defaults := c.GenerationDefaults()
	if err := api.ValidateRequest(defaults); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
