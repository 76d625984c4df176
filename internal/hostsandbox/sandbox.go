package hostsandbox

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"

	"github.com/dop251/goja"

	"creditspanel/internal/fileutil"
	"creditspanel/internal/hostbridge"
	"creditspanel/internal/logging"
	"creditspanel/internal/services"
	"creditspanel/internal/timeline"
)

const component = "hostsandbox"

// Sandbox evaluates one snippet at a time against a MemoryApp.
type Sandbox struct {
	mu          sync.Mutex
	vm          *goja.Runtime
	app         *timeline.MemoryApp
	projectFile string
	logger      *slog.Logger
}

// Option customizes a Sandbox.
type Option func(*Sandbox)

// WithProjectFile saves the project snapshot to path after every mutation.
func WithProjectFile(path string) Option {
	return func(s *Sandbox) { s.projectFile = path }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sandbox) { s.logger = logger }
}

// New builds a sandbox over app. A nil app starts with no project open.
func New(app *timeline.MemoryApp, opts ...Option) *Sandbox {
	if app == nil {
		app = timeline.NewMemoryApp()
	}
	s := &Sandbox{app: app, vm: goja.New()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, component)
	s.install()
	return s
}

// Open loads the sandbox state from projectFile (missing file means no
// project open) and persists back to it.
func Open(projectFile string, logger *slog.Logger) (*Sandbox, error) {
	app, err := LoadProject(projectFile)
	if err != nil {
		return nil, err
	}
	return New(app, WithProjectFile(projectFile), WithLogger(logger)), nil
}

// App exposes the underlying project model. Callers must not use it while
// EvalScript runs.
func (s *Sandbox) App() *timeline.MemoryApp {
	return s.app
}

// View runs fn against the app under the sandbox lock without persisting.
func (s *Sandbox) View(fn func(app *timeline.MemoryApp)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.app)
}

// Mutate runs fn against the app under the sandbox lock and persists the result.
func (s *Sandbox) Mutate(fn func(app *timeline.MemoryApp) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.app); err != nil {
		return err
	}
	return s.persist()
}

// EvalScript runs script and returns its result as a string. A script that
// throws yields hostbridge.EvalFailure, matching the host engine. Context
// cancellation interrupts the script and returns the context error.
func (s *Sandbox) EvalScript(ctx context.Context, script string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(interrupted)
		s.vm.Interrupt(ctx.Err())
	})
	value, err := s.vm.RunString(script)
	if !stop() {
		// The interrupt callback has started; let it land before clearing it.
		<-interrupted
	}
	s.vm.ClearInterrupt()

	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return "", services.Wrap(services.ErrHostProtocol, component, "eval", "interrupted", ctx.Err())
		}
		logging.WithContext(ctx, s.logger).Warn("script evaluation failed", logging.Error(err))
		return hostbridge.EvalFailure, nil
	}
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return "", nil
	}
	return value.String(), nil
}

func (s *Sandbox) install() {
	set := func(name string, fn any) {
		if err := s.vm.Set(name, fn); err != nil {
			panic(err)
		}
	}
	set(hostbridge.FnProjectName, func() string {
		return timeline.ProjectName(s.app)
	})
	set(hostbridge.FnActiveSequenceName, func() string {
		return timeline.ActiveSequenceName(s.app)
	})
	set(hostbridge.FnImportAndAddToTimeline, func(path string) string {
		reply := timeline.ImportAndAddToTimeline(s.app, path)
		s.persistLogged()
		return reply
	})
	set(hostbridge.FnImportVideo, func(path string) string {
		reply := timeline.ImportVideo(s.app, path)
		s.persistLogged()
		return reply
	})
	set(hostbridge.FnWriteBase64File, func(path, payload string) string {
		return writeBase64File(path, payload)
	})
}

func writeBase64File(path, payload string) string {
	if path == "" {
		return hostbridge.PrefixError + " No destination path."
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return hostbridge.PrefixError + " " + err.Error()
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return hostbridge.PrefixError + " " + err.Error()
	}
	return hostbridge.PrefixOK + " " + path
}

func (s *Sandbox) persist() error {
	if s.projectFile == "" {
		return nil
	}
	return SaveProject(s.projectFile, s.app)
}

func (s *Sandbox) persistLogged() {
	if err := s.persist(); err != nil {
		s.logger.Warn("project snapshot save failed", logging.String("path", s.projectFile), logging.Error(err))
	}
}
