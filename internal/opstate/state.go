package opstate

import "time"

// Phase is the lifecycle position of one panel action.
type Phase string

const (
	// PhaseIdle means the action has not run yet.
	PhaseIdle Phase = "Idle"
	// PhaseInFlight means a run is executing; the trigger is disabled.
	PhaseInFlight Phase = "InFlight"
	// PhaseSucceeded means the last run completed without error.
	PhaseSucceeded Phase = "Succeeded"
	// PhaseFailed means the last run failed; Reason holds the message.
	PhaseFailed Phase = "Failed"
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	return string(p)
}

// IsActive reports whether a run is executing.
func (p Phase) IsActive() bool {
	return p == PhaseInFlight
}

// IsFinished reports whether the last run settled.
func (p Phase) IsFinished() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Panel actions.
const (
	ActionGenerate       = "generate"
	ActionImport         = "import"
	ActionRefresh        = "refresh"
	ActionDelete         = "delete"
	ActionRefreshPatrons = "refresh_patrons"
	ActionInstallFFmpeg  = "install_ffmpeg"
)

// State is a point-in-time view of one action.
type State struct {
	Action   string
	Phase    Phase
	Reason   string
	RunID    string
	Started  time.Time
	Finished time.Time
}
