package timeline

import (
	"fmt"
	"time"
)

// TicksPerSecond is the host's timecode resolution.
const TicksPerSecond int64 = 254016000000

// One nanosecond is 254016/1000 ticks.
const (
	ticksPerNanoNum = 254016
	ticksPerNanoDen = 1000
)

// Time is a timeline position in ticks.
type Time int64

// FromDuration converts d to ticks.
func FromDuration(d time.Duration) Time {
	whole := int64(d / time.Second)
	frac := int64(d % time.Second)
	return Time(whole*TicksPerSecond + frac*ticksPerNanoNum/ticksPerNanoDen)
}

// Duration converts t to a time.Duration, truncating sub-nanosecond ticks.
func (t Time) Duration() time.Duration {
	whole := int64(t) / TicksPerSecond
	frac := int64(t) % TicksPerSecond
	return time.Duration(whole)*time.Second + time.Duration(frac*ticksPerNanoDen/ticksPerNanoNum)
}

// String renders t as HH:MM:SS.mmm.
func (t Time) String() string {
	d := t.Duration()
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	ms := int(d%time.Second) / int(time.Millisecond)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// App is the host application's scripting root.
type App interface {
	// Project returns the open project, or nil when none is open.
	Project() Project
}

// Project is an open editing project.
type Project interface {
	Name() string
	// ImportFiles adds paths to the media pool; false means the host refused.
	ImportFiles(paths []string) (bool, error)
	// RootItems lists top-level media items in insertion order.
	RootItems() []ProjectItem
	// ActiveSequence returns the active sequence, or nil.
	ActiveSequence() Sequence
	CreateNewSequenceFromClips(name string, items []ProjectItem) (Sequence, error)
}

// ProjectItem is one media-pool entry.
type ProjectItem interface {
	Name() string
	MediaPath() string
}

// Sequence is an editable timeline.
type Sequence interface {
	Name() string
	VideoTracks() []Track
	// End is the timecode just past the last clip on any track.
	End() Time
}

// Track is one video track of a sequence.
type Track interface {
	InsertClip(item ProjectItem, at Time) error
}
