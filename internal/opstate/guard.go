package opstate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"creditspanel/internal/services"
)

// Guard is a single-slot run guard for one action on one surface.
type Guard struct {
	action   string
	mu       sync.Mutex
	state    State
	onChange func(State)
	now      func() time.Time
}

// NewGuard returns an idle guard for action.
func NewGuard(action string) *Guard {
	return &Guard{action: action, state: State{Action: action, Phase: PhaseIdle}, now: time.Now}
}

// OnChange registers fn to receive every state transition. fn runs outside the lock.
func (g *Guard) OnChange(fn func(State)) {
	g.mu.Lock()
	g.onChange = fn
	g.mu.Unlock()
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Busy reports whether a run is in flight.
func (g *Guard) Busy() bool {
	return g.State().Phase.IsActive()
}

// Run executes fn if no run is in flight, recording the outcome. The context
// handed to fn carries the action name and a fresh correlation ID. A second
// caller while fn executes gets an error wrapping services.ErrBusy and fn is
// not invoked.
func (g *Guard) Run(ctx context.Context, fn func(context.Context) error) error {
	runID, ok := g.begin()
	if !ok {
		return services.Wrap(services.ErrBusy, "opstate", g.action, "already in progress", nil)
	}
	ctx = services.WithOperation(ctx, g.action)
	ctx = services.WithRequestID(ctx, runID)

	var err error
	defer func() {
		if r := recover(); r != nil {
			g.finish(fmt.Errorf("panic: %v", r))
			panic(r)
		}
		g.finish(err)
	}()
	err = fn(ctx)
	return err
}

func (g *Guard) begin() (string, bool) {
	g.mu.Lock()
	if g.state.Phase.IsActive() {
		g.mu.Unlock()
		return "", false
	}
	id := uuid.NewString()
	g.state = State{Action: g.action, Phase: PhaseInFlight, RunID: id, Started: g.now()}
	snapshot, notify := g.state, g.onChange
	g.mu.Unlock()
	if notify != nil {
		notify(snapshot)
	}
	return id, true
}

func (g *Guard) finish(err error) {
	g.mu.Lock()
	g.state.Finished = g.now()
	if err != nil {
		g.state.Phase = PhaseFailed
		g.state.Reason = err.Error()
	} else {
		g.state.Phase = PhaseSucceeded
		g.state.Reason = ""
	}
	snapshot, notify := g.state, g.onChange
	g.mu.Unlock()
	if notify != nil {
		notify(snapshot)
	}
}

// Set holds one guard per action for a single surface.
type Set struct {
	mu     sync.Mutex
	guards map[string]*Guard
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{guards: make(map[string]*Guard)}
}

// For returns the guard for action, creating it on first use.
func (s *Set) For(action string) *Guard {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.guards[action]
	if !ok {
		g = NewGuard(action)
		s.guards[action] = g
	}
	return g
}

// Snapshot returns every known action's state sorted by action name.
func (s *Set) Snapshot() []State {
	s.mu.Lock()
	guards := make([]*Guard, 0, len(s.guards))
	for _, g := range s.guards {
		guards = append(guards, g)
	}
	s.mu.Unlock()

	states := make([]State, 0, len(guards))
	for _, g := range guards {
		states = append(states, g.State())
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Action < states[j].Action })
	return states
}
