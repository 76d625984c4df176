package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"creditspanel/internal/backend"
	"creditspanel/internal/config"
	"creditspanel/internal/gallery"
	"creditspanel/internal/generation"
	"creditspanel/internal/hostbridge"
	"creditspanel/internal/hostsandbox"
	"creditspanel/internal/logging"
	"creditspanel/internal/panel"
	"creditspanel/internal/registry"
	"creditspanel/internal/settings"
	"creditspanel/internal/transfer"
)

type commandContext struct {
	configFlag *string
	serverFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, serverFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.serverFlag != nil && strings.TrimSpace(*c.serverFlag) != "" {
			cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(*c.serverFlag), "/")
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) backendClient() (*backend.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return backend.New(cfg.Server.BaseURL,
		backend.WithTimeout(cfg.RequestTimeout()),
		backend.WithLogger(c.log()),
	)
}

// session wires every collaborator a command may touch.
type session struct {
	cfg     *config.Config
	client  *backend.Client
	sandbox *hostsandbox.Sandbox
	adapter *hostbridge.Adapter
	store   *settings.Store
	syncer  *gallery.Synchronizer
	orch    *generation.Orchestrator
	panel   *panel.Panel
}

type sessionOptions struct {
	confirmer gallery.Confirmer
	onBanner  func(panel.Banner)
}

func (c *commandContext) openSession(opts sessionOptions) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.log()
	client, err := c.backendClient()
	if err != nil {
		return nil, err
	}
	sandbox, err := hostsandbox.Open(cfg.Host.ProjectFile, logger)
	if err != nil {
		return nil, fmt.Errorf("open host project: %w", err)
	}
	store, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}

	confirmer := opts.confirmer
	if confirmer == nil || !cfg.Panel.ConfirmDelete {
		confirmer = gallery.AlwaysConfirm
	}
	adapter := hostbridge.NewAdapter(sandbox, cfg.EvalTimeout(), logger)
	syncer := gallery.NewSynchronizer(registry.New(client, logger), confirmer, logger)
	orch := generation.New(client, generation.WithRefresher(syncer), generation.WithLogger(logger))
	bridge := transfer.New(client, adapter,
		transfer.WithFilePrefix(cfg.Transfer.FilePrefix),
		transfer.WithPathStyle(cfg.Host.PathStyle),
		transfer.WithMinFreeBytes(int64(cfg.Transfer.MinFreeMiB)<<20),
		transfer.WithLogger(logger),
	)
	panelOpts := []panel.Option{panel.WithLogger(logger)}
	if opts.onBanner != nil {
		panelOpts = append(panelOpts, panel.WithBannerHook(opts.onBanner))
	}
	p := panel.New(panel.Deps{
		Orchestrator: orch,
		Transfer:     bridge,
		Host:         adapter,
		Server:       client,
		Gallery:      syncer,
		Settings:     store,
		DestDir:      cfg.Host.UserDataDir,
	}, panelOpts...)

	return &session{
		cfg:     cfg,
		client:  client,
		sandbox: sandbox,
		adapter: adapter,
		store:   store,
		syncer:  syncer,
		orch:    orch,
		panel:   p,
	}, nil
}

func (s *session) Close() error {
	if s == nil {
		return nil
	}
	return s.store.Close()
}

// progressBanners prints in-flight banners to stderr so stdout stays clean.
func progressBanners(cmd *cobra.Command) func(panel.Banner) {
	errOut := cmd.ErrOrStderr()
	return func(b panel.Banner) {
		if b.Kind == panel.BannerInfo {
			fmt.Fprintln(errOut, b.Message)
		}
	}
}

// promptConfirmer asks on the command's streams; only "y" or "yes" confirms.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(cmd *cobra.Command) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

func (p *promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// userError keeps the classified error but prints the banner text.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

func asUserError(err error) error {
	if err == nil {
		return nil
	}
	return &userError{msg: panel.UserMessage(err), err: err}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
