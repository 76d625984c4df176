package config

import "creditspanel/internal/api"

const (
	defaultConfigPath          = "~/.config/creditspanel/config.toml"
	defaultServerBaseURL       = "http://localhost:5000"
	defaultUserDataDir         = "~/.local/share/creditspanel/userdata"
	defaultProjectFile         = "~/.local/share/creditspanel/project.json"
	defaultSettingsPath        = "~/.local/share/creditspanel/settings.db"
	defaultPathStyle           = PathStyleNative
	defaultFilePrefix          = "patreon_credits"
	defaultServerPollInterval  = 15
	defaultProjectPollInterval = 10
	defaultGalleryPollInterval = 30
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Host path conventions.
const (
	PathStyleNative  = "native"
	PathStyleWindows = "windows"
	PathStylePosix   = "posix"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			BaseURL: defaultServerBaseURL,
		},
		Host: Host{
			UserDataDir: defaultUserDataDir,
			ProjectFile: defaultProjectFile,
			PathStyle:   defaultPathStyle,
		},
		Transfer: Transfer{
			FilePrefix: defaultFilePrefix,
		},
		Panel: Panel{
			ServerPollInterval:  defaultServerPollInterval,
			ProjectPollInterval: defaultProjectPollInterval,
			GalleryPollInterval: defaultGalleryPollInterval,
			ConfirmDelete:       true,
		},
		Generation: generationFromRequest(api.DefaultGenerationRequest()),
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Settings: Settings{
			Path: defaultSettingsPath,
		},
	}
}

// GenerationDefaults converts the [generation] section into a request value.
func (c *Config) GenerationDefaults() api.GenerationRequest {
	g := c.Generation
	return api.GenerationRequest{
		Message:        g.Message,
		Duration:       g.Duration,
		Resolution:     g.Resolution,
		Columns:        g.Columns,
		NameAlign:      g.NameAlign,
		TruncateLength: g.TruncateLength,
		WordWrap:       g.WordWrap,
		NameSpacing:    g.NameSpacing,
		BGColor:        g.BGColor,
		UseCache:       g.UseCache,
		MessageStyle:   api.TextStyle(g.MessageStyle),
		PatronStyle:    api.TextStyle(g.PatronStyle),
	}
}

func generationFromRequest(req api.GenerationRequest) Generation {
	return Generation{
		Message:        req.Message,
		Duration:       req.Duration,
		Resolution:     req.Resolution,
		Columns:        req.Columns,
		NameAlign:      req.NameAlign,
		TruncateLength: req.TruncateLength,
		WordWrap:       req.WordWrap,
		NameSpacing:    req.NameSpacing,
		BGColor:        req.BGColor,
		UseCache:       req.UseCache,
		MessageStyle:   TextStyle(req.MessageStyle),
		PatronStyle:    TextStyle(req.PatronStyle),
	}
}
