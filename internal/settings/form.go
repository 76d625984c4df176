package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"creditspanel/internal/api"
)

// Keys used by the panel.
const (
	KeyForm         = "form"
	KeyLastArtifact = "last_artifact"
)

// LastArtifact is the most recent successful generation, kept so a later
// CLI invocation can import it.
type LastArtifact struct {
	Filename    string    `json:"filename"`
	VideoURL    string    `json:"video_url"`
	PatronCount int       `json:"patron_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SaveForm stores req as the last-used form values.
func (s *Store) SaveForm(ctx context.Context, req api.GenerationRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	return s.Put(ctx, KeyForm, string(data))
}

// LoadForm overlays the saved form on defaults. A missing or unreadable entry
// returns defaults unchanged; the bool reports whether a saved form was used.
func (s *Store) LoadForm(ctx context.Context, defaults api.GenerationRequest) (api.GenerationRequest, bool, error) {
	raw, ok, err := s.Get(ctx, KeyForm)
	if err != nil || !ok {
		return defaults, false, err
	}
	merged := defaults.Clone()
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		return defaults, false, nil
	}
	return merged, true, nil
}

// SaveLastArtifact records the most recent artifact.
func (s *Store) SaveLastArtifact(ctx context.Context, a LastArtifact) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return s.Put(ctx, KeyLastArtifact, string(data))
}

// LastArtifact returns the recorded artifact, if any.
func (s *Store) LastArtifact(ctx context.Context) (LastArtifact, bool, error) {
	raw, ok, err := s.Get(ctx, KeyLastArtifact)
	if err != nil || !ok {
		return LastArtifact{}, false, err
	}
	var a LastArtifact
	if err := json.Unmarshal([]byte(raw), &a); err != nil || a.Filename == "" {
		return LastArtifact{}, false, nil
	}
	return a, true, nil
}

// ClearLastArtifact forgets the recorded artifact.
func (s *Store) ClearLastArtifact(ctx context.Context) error {
	return s.Delete(ctx, KeyLastArtifact)
}
