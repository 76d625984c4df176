package timeline

// Snapshot is the serializable state of a MemoryApp.
type Snapshot struct {
	Project *ProjectSnapshot `json:"project,omitempty"`
}

// ProjectSnapshot captures one project.
type ProjectSnapshot struct {
	Name      string             `json:"name"`
	Items     []ItemSnapshot     `json:"items,omitempty"`
	Sequences []SequenceSnapshot `json:"sequences,omitempty"`
	// Active is the index into Sequences, or -1.
	Active int `json:"active"`
}

// ItemSnapshot captures one media-pool entry.
type ItemSnapshot struct {
	Name      string `json:"name"`
	MediaPath string `json:"media_path"`
	Length    Time   `json:"length_ticks"`
}

// SequenceSnapshot captures one sequence's tracks.
type SequenceSnapshot struct {
	Name   string   `json:"name"`
	Tracks [][]Clip `json:"tracks"`
}

// Snapshot captures the app's current state.
func (a *MemoryApp) Snapshot() Snapshot {
	p := a.project
	if p == nil {
		return Snapshot{}
	}
	ps := &ProjectSnapshot{Name: p.name, Active: -1}
	for _, item := range p.items {
		ps.Items = append(ps.Items, ItemSnapshot{Name: item.name, MediaPath: item.path, Length: item.length})
	}
	for i, seq := range p.sequences {
		ss := SequenceSnapshot{Name: seq.name, Tracks: make([][]Clip, len(seq.tracks))}
		for j, track := range seq.tracks {
			ss.Tracks[j] = track.Clips()
			if ss.Tracks[j] == nil {
				ss.Tracks[j] = []Clip{}
			}
		}
		ps.Sequences = append(ps.Sequences, ss)
		if seq == p.active {
			ps.Active = i
		}
	}
	return Snapshot{Project: ps}
}

// Restore replaces the app's state with s.
func (a *MemoryApp) Restore(s Snapshot) {
	if s.Project == nil {
		a.project = nil
		return
	}
	p := a.Open(s.Project.Name)
	for _, item := range s.Project.Items {
		p.items = append(p.items, &MemoryItem{name: item.Name, path: item.MediaPath, length: item.Length})
	}
	for i, ss := range s.Project.Sequences {
		seq := &MemorySequence{name: ss.Name}
		for _, clips := range ss.Tracks {
			seq.tracks = append(seq.tracks, &MemoryTrack{clips: append([]Clip(nil), clips...)})
		}
		p.sequences = append(p.sequences, seq)
		if i == s.Project.Active {
			p.active = seq
		}
	}
}
