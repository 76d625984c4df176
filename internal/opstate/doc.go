// Package opstate tracks the lifecycle of user-facing panel actions and
// enforces single-flight per action: a Guard admits one run at a time and
// rejects overlapping attempts with services.ErrBusy instead of queueing them.
package opstate
