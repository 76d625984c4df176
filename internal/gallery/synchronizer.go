package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Synchronizer owns both surfaces and tracks which are visible.
type Synchronizer struct {
	surfaces map[SurfaceKind]*Surface

	mu      sync.Mutex
	visible map[SurfaceKind]bool
}

// NewSynchronizer builds both surfaces over reg. Neither is visible initially.
func NewSynchronizer(reg Registry, confirmer Confirmer, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		surfaces: map[SurfaceKind]*Surface{
			SurfaceGallery: NewSurface(SurfaceGallery, reg, confirmer, logger),
			SurfacePanel:   NewSurface(SurfacePanel, reg, confirmer, logger),
		},
		visible: make(map[SurfaceKind]bool),
	}
}

// Surface returns the surface of kind, or nil for an unknown kind.
func (s *Synchronizer) Surface(kind SurfaceKind) *Surface {
	return s.surfaces[kind]
}

// SetVisible shows or hides a surface.
func (s *Synchronizer) SetVisible(kind SurfaceKind, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible[kind] = visible
}

// Visible reports whether kind is shown.
func (s *Synchronizer) Visible(kind SurfaceKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible[kind]
}

// Refresh rebuilds one surface.
func (s *Synchronizer) Refresh(ctx context.Context, kind SurfaceKind) error {
	surface := s.Surface(kind)
	if surface == nil {
		return fmt.Errorf("unknown surface %q", kind)
	}
	_, err := surface.Refresh(ctx)
	return err
}

// RefreshVisible rebuilds every visible surface independently.
func (s *Synchronizer) RefreshVisible(ctx context.Context) error {
	var errs []error
	for _, kind := range []SurfaceKind{SurfaceGallery, SurfacePanel} {
		if !s.Visible(kind) {
			continue
		}
		if err := s.Refresh(ctx, kind); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
		}
	}
	return errors.Join(errs...)
}
