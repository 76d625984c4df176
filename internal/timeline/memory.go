package timeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultClipDuration is assigned to imported media whose length is unknown.
var DefaultClipDuration = FromDuration(10 * time.Second)

// MemoryApp is an in-process host with at most one open project. It is not
// safe for concurrent use; the sandbox serializes access.
type MemoryApp struct {
	project *MemoryProject
}

// NewMemoryApp returns a host with no project open.
func NewMemoryApp() *MemoryApp {
	return &MemoryApp{}
}

// Project returns the open project or nil.
func (a *MemoryApp) Project() Project {
	if a == nil || a.project == nil {
		return nil
	}
	return a.project
}

// Open replaces the open project with an empty one named name.
func (a *MemoryApp) Open(name string) *MemoryProject {
	a.project = &MemoryProject{name: name, probe: statProbe}
	return a.project
}

// Close closes the open project.
func (a *MemoryApp) Close() {
	a.project = nil
}

// Current returns the concrete open project, or nil.
func (a *MemoryApp) Current() *MemoryProject {
	return a.project
}

// DurationProbe reports the media length of path; a non-nil error refuses the import.
type DurationProbe func(path string) (Time, error)

func statProbe(path string) (Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	return DefaultClipDuration, nil
}

// MemoryProject is an editing project held in memory.
type MemoryProject struct {
	name      string
	items     []*MemoryItem
	sequences []*MemorySequence
	active    *MemorySequence
	probe     DurationProbe
}

// SetProbe replaces the media probe used by ImportFiles.
func (p *MemoryProject) SetProbe(probe DurationProbe) {
	p.probe = probe
}

func (p *MemoryProject) Name() string { return p.name }

// ImportFiles adds every path or none. Missing files make the host refuse.
func (p *MemoryProject) ImportFiles(paths []string) (bool, error) {
	staged := make([]*MemoryItem, 0, len(paths))
	for _, path := range paths {
		length, err := p.probe(path)
		if err != nil {
			return false, nil
		}
		staged = append(staged, &MemoryItem{name: filepath.Base(path), path: path, length: length})
	}
	p.items = append(p.items, staged...)
	return true, nil
}

// AddItem appends an item to the media pool without probing.
func (p *MemoryProject) AddItem(name, path string, length Time) *MemoryItem {
	item := &MemoryItem{name: name, path: path, length: length}
	p.items = append(p.items, item)
	return item
}

func (p *MemoryProject) RootItems() []ProjectItem {
	out := make([]ProjectItem, len(p.items))
	for i, item := range p.items {
		out[i] = item
	}
	return out
}

// Items returns the concrete media pool in insertion order.
func (p *MemoryProject) Items() []*MemoryItem {
	return append([]*MemoryItem(nil), p.items...)
}

func (p *MemoryProject) ActiveSequence() Sequence {
	if p.active == nil {
		return nil
	}
	return p.active
}

// Active returns the concrete active sequence, or nil.
func (p *MemoryProject) Active() *MemorySequence {
	return p.active
}

// Sequences returns every sequence in creation order.
func (p *MemoryProject) Sequences() []*MemorySequence {
	return append([]*MemorySequence(nil), p.sequences...)
}

// AddSequence creates a sequence with videoTracks empty tracks and makes it active.
func (p *MemoryProject) AddSequence(name string, videoTracks int) *MemorySequence {
	seq := &MemorySequence{name: name}
	for i := 0; i < videoTracks; i++ {
		seq.tracks = append(seq.tracks, &MemoryTrack{})
	}
	p.sequences = append(p.sequences, seq)
	p.active = seq
	return seq
}

// SetActive activates seq; nil deactivates.
func (p *MemoryProject) SetActive(seq *MemorySequence) {
	p.active = seq
}

// CreateNewSequenceFromClips lays items end to end on a new single-track
// sequence and activates it.
func (p *MemoryProject) CreateNewSequenceFromClips(name string, items []ProjectItem) (Sequence, error) {
	if len(items) == 0 {
		return nil, errors.New("no clips supplied")
	}
	seq := p.AddSequence(name, 1)
	var at Time
	for _, item := range items {
		if err := seq.tracks[0].InsertClip(item, at); err != nil {
			return nil, err
		}
		at += clipLength(item)
	}
	return seq, nil
}

// MemoryItem is a media-pool entry.
type MemoryItem struct {
	name   string
	path   string
	length Time
}

func (i *MemoryItem) Name() string      { return i.name }
func (i *MemoryItem) MediaPath() string { return i.path }

// Length is the media duration.
func (i *MemoryItem) Length() Time { return i.length }

func clipLength(item ProjectItem) Time {
	if mi, ok := item.(*MemoryItem); ok && mi.length > 0 {
		return mi.length
	}
	return DefaultClipDuration
}

// MemorySequence is a timeline of video tracks.
type MemorySequence struct {
	name   string
	tracks []*MemoryTrack
}

func (s *MemorySequence) Name() string { return s.name }

func (s *MemorySequence) VideoTracks() []Track {
	out := make([]Track, len(s.tracks))
	for i, track := range s.tracks {
		out[i] = track
	}
	return out
}

// Tracks returns the concrete tracks.
func (s *MemorySequence) Tracks() []*MemoryTrack {
	return append([]*MemoryTrack(nil), s.tracks...)
}

func (s *MemorySequence) End() Time {
	var end Time
	for _, track := range s.tracks {
		if e := track.End(); e > end {
			end = e
		}
	}
	return end
}

// Clip is one placement of a media item on a track.
type Clip struct {
	Item      string `json:"item"`
	MediaPath string `json:"media_path"`
	Start     Time   `json:"start_ticks"`
	Length    Time   `json:"length_ticks"`
}

// End is the timecode just past the clip.
func (c Clip) End() Time { return c.Start + c.Length }

// MemoryTrack holds clips ordered by start.
type MemoryTrack struct {
	clips []Clip
}

// Clips returns a copy of the track's clips.
func (t *MemoryTrack) Clips() []Clip {
	return append([]Clip(nil), t.clips...)
}

// End is the timecode just past the last clip.
func (t *MemoryTrack) End() Time {
	var end Time
	for _, c := range t.clips {
		if c.End() > end {
			end = c.End()
		}
	}
	return end
}

// InsertClip ripple-inserts item at at: clips starting at or after at move
// later by the item's length, and a clip spanning at is split around it.
func (t *MemoryTrack) InsertClip(item ProjectItem, at Time) error {
	if item == nil {
		return errors.New("no item to insert")
	}
	if at < 0 {
		return fmt.Errorf("invalid insert time %s", at)
	}
	length := clipLength(item)
	out := make([]Clip, 0, len(t.clips)+2)
	for _, c := range t.clips {
		switch {
		case c.End() <= at:
			out = append(out, c)
		case c.Start >= at:
			c.Start += length
			out = append(out, c)
		default:
			head := c
			head.Length = at - c.Start
			tail := c
			tail.Start = at + length
			tail.Length = c.End() - at
			out = append(out, head, tail)
		}
	}
	out = append(out, Clip{Item: item.Name(), MediaPath: item.MediaPath(), Start: at, Length: length})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	t.clips = out
	return nil
}
