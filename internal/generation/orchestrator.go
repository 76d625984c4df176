package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"creditspanel/internal/api"
	"creditspanel/internal/logging"
	"creditspanel/internal/opstate"
	"creditspanel/internal/services"
)

const component = "generation"

// ErrEmptyMessage rejects a submission whose header message is blank.
var ErrEmptyMessage = fmt.Errorf("%w: header message is empty", services.ErrValidation)

// Backend is the subset of the REST client used by the orchestrator.
type Backend interface {
	Generate(ctx context.Context, req api.GenerationRequest) (api.GenerateResponse, error)
	RefreshPatrons(ctx context.Context) (api.PatronRefreshResponse, error)
}

// Refresher rebuilds whichever gallery surfaces are visible.
type Refresher interface {
	RefreshVisible(ctx context.Context) error
}

// Result is the artifact reference produced by a successful submission.
type Result struct {
	Filename    string
	VideoURL    string
	PatronCount int
	GeneratedAt time.Time
}

// Orchestrator owns the "current artifact" and the generate guard.
type Orchestrator struct {
	backend   Backend
	refresher Refresher
	guards    *opstate.Set
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current *Result
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRefresher sets the gallery refresher notified after each success.
func WithRefresher(r Refresher) Option {
	return func(o *Orchestrator) { o.refresher = r }
}

// WithGuards shares a surface's guard set so the UI can observe action state.
func WithGuards(set *opstate.Set) Option {
	return func(o *Orchestrator) {
		if set != nil {
			o.guards = set
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// New builds an orchestrator over backend.
func New(backend Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{backend: backend, guards: opstate.NewSet(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, component)
	return o
}

// Guards exposes the action guards.
func (o *Orchestrator) Guards() *opstate.Set {
	return o.guards
}

// Current returns the artifact of the last successful submission, if any.
// It is withdrawn for the duration of every new submission.
func (o *Orchestrator) Current() (Result, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.current == nil {
		return Result{}, false
	}
	return *o.current, true
}

// Submit sends req to the backend. A blank message fails with ErrEmptyMessage
// and issues no request.
func (o *Orchestrator) Submit(ctx context.Context, req api.GenerationRequest) (Result, error) {
	req = req.Normalized()
	if req.Message == "" {
		return Result{}, ErrEmptyMessage
	}
	if err := api.ValidateRequest(req); err != nil {
		return Result{}, services.Wrap(services.ErrValidation, component, "submit", "", err)
	}

	var result Result
	err := o.guards.For(opstate.ActionGenerate).Run(ctx, func(ctx context.Context) error {
		o.setCurrent(nil)
		logger := logging.WithContext(ctx, o.logger)
		logger.Info("generation submitted",
			logging.Int("duration", req.Duration),
			logging.String("resolution", req.Resolution),
			logging.Int("custom_names", len(req.CustomNames)),
		)

		resp, err := o.backend.Generate(ctx, req)
		if err != nil {
			logger.Warn("generation failed", logging.Error(err))
			return err
		}
		filename := strings.TrimSpace(resp.Filename)
		if filename == "" {
			return services.Wrap(services.ErrServer, component, "submit", "response carried no filename", nil)
		}
		result = Result{
			Filename:    filename,
			VideoURL:    resp.VideoURL,
			PatronCount: resp.PatronCount,
			GeneratedAt: o.now(),
		}
		o.setCurrent(&result)
		logger.Info("generation complete",
			logging.String(logging.FieldFilename, filename),
			logging.Int("patron_count", resp.PatronCount),
		)

		if o.refresher != nil {
			if err := o.refresher.RefreshVisible(ctx); err != nil {
				logger.Warn("gallery refresh after generation failed", logging.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// RefreshPatrons asks the backend to refetch the patron list and returns the new count.
func (o *Orchestrator) RefreshPatrons(ctx context.Context) (int, error) {
	var count int
	err := o.guards.For(opstate.ActionRefreshPatrons).Run(ctx, func(ctx context.Context) error {
		resp, err := o.backend.RefreshPatrons(ctx)
		if err != nil {
			return err
		}
		count = resp.Count
		logging.WithContext(ctx, o.logger).Info("patron list refreshed", logging.Int("patron_count", count))
		return nil
	})
	return count, err
}

func (o *Orchestrator) setCurrent(r *Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if r == nil {
		o.current = nil
		return
	}
	cp := *r
	o.current = &cp
}
