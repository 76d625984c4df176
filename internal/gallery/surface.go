package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"creditspanel/internal/logging"
	"creditspanel/internal/opstate"
	"creditspanel/internal/registry"
	"creditspanel/internal/services"
)

const component = "gallery"

// SurfaceKind names a UI surface.
type SurfaceKind string

const (
	// SurfaceGallery is the public web gallery grid.
	SurfaceGallery SurfaceKind = "gallery"
	// SurfacePanel is the list inside the host application's panel.
	SurfacePanel SurfaceKind = "panel"
)

// ErrDeclined is returned when the user does not confirm a delete.
var ErrDeclined = errors.New("delete not confirmed")

// Registry is the artifact source both surfaces read through.
type Registry interface {
	List(ctx context.Context) ([]registry.Artifact, error)
	Delete(ctx context.Context, filename string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm approves every prompt.
var AlwaysConfirm = ConfirmFunc(func(string) bool { return true })

// DeletePrompt is the confirmation question for filename.
func DeletePrompt(filename string) string {
	return fmt.Sprintf("Delete %s? This cannot be undone.", filename)
}

// Surface is one rendered artifact list.
type Surface struct {
	kind      SurfaceKind
	registry  Registry
	confirmer Confirmer
	guards    *opstate.Set
	logger    *slog.Logger

	mu        sync.RWMutex
	rows      []registry.Artifact
	count     int
	loaded    bool
	loadErr   error
	refreshed time.Time
}

// NewSurface builds an empty surface. A nil confirmer approves every delete.
func NewSurface(kind SurfaceKind, reg Registry, confirmer Confirmer, logger *slog.Logger) *Surface {
	if confirmer == nil {
		confirmer = AlwaysConfirm
	}
	return &Surface{
		kind:      kind,
		registry:  reg,
		confirmer: confirmer,
		guards:    opstate.NewSet(),
		logger:    logging.NewComponentLogger(logger, component).With(logging.String(logging.FieldSurface, string(kind))),
	}
}

// Kind returns the surface name.
func (s *Surface) Kind() SurfaceKind { return s.kind }

// Guards exposes the refresh and delete guards.
func (s *Surface) Guards() *opstate.Set { return s.guards }

// Refresh discards the rendered rows and rebuilds them from the registry.
// On failure the rows are cleared and LoadError reports why.
func (s *Surface) Refresh(ctx context.Context) ([]registry.Artifact, error) {
	ctx = services.WithSurface(ctx, string(s.kind))
	var rows []registry.Artifact
	err := s.guards.For(opstate.ActionRefresh).Run(ctx, func(ctx context.Context) error {
		listed, err := s.registry.List(ctx)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = nil
		if err != nil {
			s.loadErr = err
			logging.WithContext(ctx, s.logger).Warn("artifact list refresh failed", logging.Error(err))
			return err
		}
		s.rows = listed
		s.count = len(listed)
		s.loaded = true
		s.loadErr = nil
		s.refreshed = time.Now()
		rows = append([]registry.Artifact(nil), listed...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete asks for confirmation, deletes filename from the registry, and only
// then drops its row and decrements the count (never below zero). A failed
// delete leaves the surface untouched.
func (s *Surface) Delete(ctx context.Context, filename string) error {
	if !s.confirmer.Confirm(DeletePrompt(filename)) {
		return ErrDeclined
	}
	ctx = services.WithSurface(ctx, string(s.kind))
	return s.guards.For(opstate.ActionDelete).Run(ctx, func(ctx context.Context) error {
		if err := s.registry.Delete(ctx, filename); err != nil {
			logging.WithContext(ctx, s.logger).Warn("artifact delete failed",
				logging.String(logging.FieldFilename, filename),
				logging.Error(err),
			)
			return err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		kept := s.rows[:0:0]
		for _, row := range s.rows {
			if row.Filename != filename {
				kept = append(kept, row)
			}
		}
		s.rows = kept
		if s.count > 0 {
			s.count--
		}
		return nil
	})
}

// Rows returns a copy of the rendered rows in server order.
func (s *Surface) Rows() []registry.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]registry.Artifact(nil), s.rows...)
}

// Count is the displayed artifact count.
func (s *Surface) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Empty reports whether the empty-state placeholder should show.
func (s *Surface) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded && s.count == 0
}

// LoadError returns the last refresh failure, cleared by the next success.
func (s *Surface) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// RefreshedAt is the time of the last successful refresh.
func (s *Surface) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshed
}

// Poll refreshes every interval until ctx is done. Ticks that land while a
// refresh is still running are skipped.
func (s *Surface) Poll(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil && errors.Is(err, services.ErrBusy) {
				s.logger.Debug("poll skipped; refresh in flight")
			}
		}
	}
}
