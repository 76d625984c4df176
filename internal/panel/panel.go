package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"creditspanel/internal/api"
	"creditspanel/internal/gallery"
	"creditspanel/internal/generation"
	"creditspanel/internal/hostbridge"
	"creditspanel/internal/logging"
	"creditspanel/internal/opstate"
	"creditspanel/internal/services"
	"creditspanel/internal/settings"
	"creditspanel/internal/transfer"
)

const component = "panel"

// ErrNoCurrentArtifact means import was requested before any generation succeeded.
var ErrNoCurrentArtifact = errors.New("no current artifact")

// BannerKind selects the banner styling.
type BannerKind string

const (
	BannerNone    BannerKind = ""
	BannerInfo    BannerKind = "info"
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is the status line shown above the form.
type Banner struct {
	Kind    BannerKind
	Message string
	At      time.Time
}

// Server is the subset of the backend client the panel polls and drives.
type Server interface {
	CheckFFmpeg(ctx context.Context) (bool, error)
	InstallFFmpeg(ctx context.Context) error
}

// Host is the subset of the host adapter used by the panel.
type Host interface {
	ProjectContext(ctx context.Context) (hostbridge.ProjectContext, error)
	ImportAndAddToTimeline(ctx context.Context, localPath string) (hostbridge.Reply, error)
}

// Transferer moves an artifact into the user data directory.
type Transferer interface {
	FetchAndPersist(ctx context.Context, ref transfer.ArtifactRef, destDir string) (string, error)
}

// FormStore persists the last-used form and artifact.
type FormStore interface {
	SaveForm(ctx context.Context, req api.GenerationRequest) error
	SaveLastArtifact(ctx context.Context, a settings.LastArtifact) error
}

// Deps are the collaborators of a Panel. Settings may be nil.
type Deps struct {
	Orchestrator *generation.Orchestrator
	Transfer     Transferer
	Host         Host
	Server       Server
	Gallery      *gallery.Synchronizer
	Settings     FormStore
	DestDir      string
}

// Snapshot is a consistent read of everything the panel displays.
type Snapshot struct {
	Banner        Banner
	ServerLine    string
	ServerOnline  bool
	FFmpeg        bool
	ProjectLine   string
	Project       hostbridge.ProjectContext
	ImportVisible bool
	Current       generation.Result
	HasCurrent    bool
	Actions       []opstate.State
}

// Option customizes a Panel.
type Option func(*Panel)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Panel) { p.logger = logger }
}

// WithBannerHook registers fn to observe every banner change.
func WithBannerHook(fn func(Banner)) Option {
	return func(p *Panel) { p.onBanner = fn }
}

// Panel coordinates the generate and import pipeline for one surface.
type Panel struct {
	deps     Deps
	guards   *opstate.Set
	logger   *slog.Logger
	onBanner func(Banner)
	now      func() time.Time

	mu            sync.RWMutex
	banner        Banner
	serverLine    string
	serverOnline  bool
	ffmpeg        bool
	project       hostbridge.ProjectContext
	projectLine   string
	importVisible bool
}

// New builds a panel. The orchestrator's guard set is shared so every action
// state is observable from one place.
func New(deps Deps, opts ...Option) *Panel {
	p := &Panel{deps: deps, now: time.Now}
	if deps.Orchestrator != nil {
		p.guards = deps.Orchestrator.Guards()
	} else {
		p.guards = opstate.NewSet()
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, component)
	return p
}

// Status returns the current display state.
func (p *Panel) Status() Snapshot {
	p.mu.RLock()
	snap := Snapshot{
		Banner:        p.banner,
		ServerLine:    p.serverLine,
		ServerOnline:  p.serverOnline,
		FFmpeg:        p.ffmpeg,
		ProjectLine:   p.projectLine,
		Project:       p.project,
		ImportVisible: p.importVisible,
	}
	p.mu.RUnlock()
	if p.deps.Orchestrator != nil {
		snap.Current, snap.HasCurrent = p.deps.Orchestrator.Current()
	}
	snap.Actions = p.guards.Snapshot()
	return snap
}

// Generate submits req. The import control is hidden for the duration and
// revealed only when a new artifact is current.
func (p *Panel) Generate(ctx context.Context, req api.GenerationRequest) (generation.Result, error) {
	ctx = services.WithSurface(ctx, component)
	if p.guards.For(opstate.ActionGenerate).Busy() {
		return generation.Result{}, p.fail(ctx, "generate", busyError(opstate.ActionGenerate))
	}
	p.setImportVisible(false)
	p.setBanner(BannerInfo, MsgGenerating)

	result, err := p.deps.Orchestrator.Submit(ctx, req)
	if err != nil {
		_, stillCurrent := p.deps.Orchestrator.Current()
		p.setImportVisible(stillCurrent)
		return generation.Result{}, p.fail(ctx, "generate", err)
	}
	p.setBanner(BannerSuccess, generatedMessage(result.PatronCount))
	p.setImportVisible(true)

	if p.deps.Settings != nil {
		logger := logging.WithContext(ctx, p.logger)
		if err := p.deps.Settings.SaveForm(ctx, req); err != nil {
			logger.Warn("save form failed", logging.Error(err))
		}
		last := settings.LastArtifact{
			Filename:    result.Filename,
			VideoURL:    result.VideoURL,
			PatronCount: result.PatronCount,
			GeneratedAt: result.GeneratedAt,
		}
		if err := p.deps.Settings.SaveLastArtifact(ctx, last); err != nil {
			logger.Warn("save last artifact failed", logging.Error(err))
		}
	}
	return result, nil
}

// Import transfers the current artifact and places it on the host timeline.
// Without a current artifact it returns ErrNoCurrentArtifact and changes nothing.
func (p *Panel) Import(ctx context.Context) (hostbridge.Reply, error) {
	current, ok := p.deps.Orchestrator.Current()
	if !ok {
		return hostbridge.Reply{}, ErrNoCurrentArtifact
	}
	return p.ImportArtifact(ctx, current.Filename)
}

// ImportArtifact transfers filename and places it on the host timeline.
func (p *Panel) ImportArtifact(ctx context.Context, filename string) (hostbridge.Reply, error) {
	ctx = services.WithSurface(ctx, component)
	var reply hostbridge.Reply
	err := p.guards.For(opstate.ActionImport).Run(ctx, func(ctx context.Context) error {
		p.setBanner(BannerInfo, MsgImporting)
		path, err := p.deps.Transfer.FetchAndPersist(ctx, transfer.ArtifactRef{Filename: filename}, p.deps.DestDir)
		if err != nil {
			return err
		}
		reply, err = p.deps.Host.ImportAndAddToTimeline(ctx, path)
		return err
	})
	if err != nil {
		return reply, p.fail(ctx, "import", err)
	}
	p.setBanner(BannerSuccess, reply.Message)
	if _, err := p.UpdateProjectInfo(ctx); err != nil {
		logging.WithContext(ctx, p.logger).Debug("project info refresh after import failed", logging.Error(err))
	}
	return reply, nil
}

// RefreshPatrons forces the backend to refetch patrons.
func (p *Panel) RefreshPatrons(ctx context.Context) (int, error) {
	ctx = services.WithSurface(ctx, component)
	if p.guards.For(opstate.ActionRefreshPatrons).Busy() {
		return 0, p.fail(ctx, "refresh patrons", busyError(opstate.ActionRefreshPatrons))
	}
	p.setBanner(BannerInfo, MsgRefreshing)
	count, err := p.deps.Orchestrator.RefreshPatrons(ctx)
	if err != nil {
		return 0, p.fail(ctx, "refresh patrons", err)
	}
	p.setBanner(BannerSuccess, refreshedMessage(count))
	return count, nil
}

// InstallFFmpeg asks the backend to install FFmpeg and re-probes the server.
func (p *Panel) InstallFFmpeg(ctx context.Context) error {
	ctx = services.WithSurface(ctx, component)
	err := p.guards.For(opstate.ActionInstallFFmpeg).Run(ctx, func(ctx context.Context) error {
		p.setBanner(BannerInfo, MsgInstalling)
		return p.deps.Server.InstallFFmpeg(ctx)
	})
	if err != nil {
		return p.fail(ctx, "install ffmpeg", err)
	}
	p.setBanner(BannerSuccess, MsgInstalled)
	p.CheckServer(ctx)
	return nil
}

// CheckServer probes /check-ffmpeg and updates the server line. It reports
// whether the backend answered.
func (p *Panel) CheckServer(ctx context.Context) bool {
	installed, err := p.deps.Server.CheckFFmpeg(ctx)
	line := MsgServerOK
	switch {
	case err != nil:
		line = MsgServerOffline
		logging.WithContext(ctx, p.logger).Debug("server probe failed", logging.Error(err))
	case !installed:
		line = MsgServerNoFFmpeg
	}
	if err == nil {
		logging.WithContext(ctx, p.logger).Debug("server probe", logging.Bool("ffmpeg", installed))
	}
	p.mu.Lock()
	p.serverLine = line
	p.serverOnline = err == nil
	p.ffmpeg = err == nil && installed
	p.mu.Unlock()
	return err == nil
}

// UpdateProjectInfo rereads the host project context.
func (p *Panel) UpdateProjectInfo(ctx context.Context) (hostbridge.ProjectContext, error) {
	info, err := p.deps.Host.ProjectContext(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.project = hostbridge.ProjectContext{}
		p.projectLine = MsgProjectUnknown
		return hostbridge.ProjectContext{}, err
	}
	p.project = info
	p.projectLine = info.Describe()
	return info, nil
}

// Intervals configures the polling loops. A non-positive interval disables its loop.
type Intervals struct {
	Server  time.Duration
	Project time.Duration
	Gallery time.Duration
}

// Run probes the server and project immediately, then keeps polling until
// ctx is cancelled. The embedded panel's gallery surface is made visible and
// polled as well.
func (p *Panel) Run(ctx context.Context, iv Intervals) error {
	ctx = services.WithSurface(ctx, component)
	var wg sync.WaitGroup
	start := func(interval time.Duration, fn func(context.Context)) {
		if interval <= 0 {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					fn(ctx)
				}
			}
		}()
	}

	start(iv.Server, func(ctx context.Context) { p.CheckServer(ctx) })
	start(iv.Project, func(ctx context.Context) {
		if _, err := p.UpdateProjectInfo(ctx); err != nil {
			logging.WithContext(ctx, p.logger).Debug("project poll failed", logging.Error(err))
		}
	})
	if p.deps.Gallery != nil && iv.Gallery > 0 {
		p.deps.Gallery.SetVisible(gallery.SurfacePanel, true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			surface := p.deps.Gallery.Surface(gallery.SurfacePanel)
			if _, err := surface.Refresh(ctx); err != nil {
				logging.WithContext(ctx, p.logger).Debug("initial gallery refresh failed", logging.Error(err))
			}
			surface.Poll(ctx, iv.Gallery)
		}()
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}

func (p *Panel) fail(ctx context.Context, operation string, err error) error {
	msg := UserMessage(err)
	logging.WithContext(ctx, p.logger).Warn(operation+" failed",
		logging.String("kind", services.Kind(err)),
		logging.Error(err),
	)
	if !errors.Is(err, services.ErrBusy) {
		p.setBanner(BannerError, msg)
	}
	return err
}

func (p *Panel) setBanner(kind BannerKind, msg string) {
	b := Banner{Kind: kind, Message: msg, At: p.now()}
	p.mu.Lock()
	p.banner = b
	hook := p.onBanner
	p.mu.Unlock()
	if hook != nil {
		hook(b)
	}
}

func (p *Panel) setImportVisible(v bool) {
	p.mu.Lock()
	p.importVisible = v
	p.mu.Unlock()
}

func busyError(action string) error {
	return services.Wrap(services.ErrBusy, "opstate", action, "already in progress", nil)
}

// String renders the banner with a kind prefix for plain-text surfaces.
func (b Banner) String() string {
	if b.Kind == BannerNone {
		return b.Message
	}
	return fmt.Sprintf("[%s] %s", b.Kind, b.Message)
}
