// Package timeline implements the host-side import algorithm that places a
// credits video into an editing project, together with an in-memory project
// model the headless host sandbox runs it against.
//
// ImportAndAddToTimeline never panics or returns an error value: every outcome,
// including unexpected failures, is encoded in the returned "OK: ..." or
// "ERROR: ..." string, because that string is the only channel back to the
// panel.
package timeline
