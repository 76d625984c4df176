package timeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Result messages returned to the panel.
const (
	MsgNoProject       = "ERROR: No project open."
	MsgImportFailedFmt = "ERROR: Import failed for %s"
	MsgItemNotFound    = "ERROR: Could not find imported item in project."
	MsgCreatedSequence = "OK: Created new sequence with credits video."
	MsgNoVideoTracks   = "ERROR: No video tracks in sequence."
	MsgAppended        = "OK: Added credits to end of timeline."
)

// ImportAndAddToTimeline imports path and appends it to the active sequence's
// first video track at the sequence end. Without an active sequence it
// creates one from the imported item instead and never touches a track.
func ImportAndAddToTimeline(app App, path string) (reply string) {
	defer recoverInto(&reply)

	project := projectOf(app)
	if project == nil {
		return MsgNoProject
	}
	if msg, ok := importPath(project, path); !ok {
		return msg
	}

	item := locateImported(project.RootItems(), path)
	if item == nil {
		return MsgItemNotFound
	}

	seq := project.ActiveSequence()
	if seq == nil {
		if _, err := project.CreateNewSequenceFromClips(sequenceName(item), []ProjectItem{item}); err != nil {
			return errorReply(err)
		}
		return MsgCreatedSequence
	}

	tracks := seq.VideoTracks()
	if len(tracks) == 0 || tracks[0] == nil {
		return MsgNoVideoTracks
	}
	if err := tracks[0].InsertClip(item, seq.End()); err != nil {
		return errorReply(err)
	}
	return MsgAppended
}

// ImportVideo imports path without editing any sequence. It returns path on
// success.
func ImportVideo(app App, path string) (reply string) {
	defer recoverInto(&reply)

	project := projectOf(app)
	if project == nil {
		return MsgNoProject
	}
	if msg, ok := importPath(project, path); !ok {
		return msg
	}
	return path
}

// ProjectName returns the open project's name, or "".
func ProjectName(app App) (name string) {
	defer func() {
		if recover() != nil {
			name = ""
		}
	}()
	if project := projectOf(app); project != nil {
		return project.Name()
	}
	return ""
}

// ActiveSequenceName returns the active sequence's name, or "".
func ActiveSequenceName(app App) (name string) {
	defer func() {
		if recover() != nil {
			name = ""
		}
	}()
	project := projectOf(app)
	if project == nil {
		return ""
	}
	if seq := project.ActiveSequence(); seq != nil {
		return seq.Name()
	}
	return ""
}

// locateImported scans newest-first for an exact media path match and falls
// back to the newest item. The fallback can pick the wrong item if something
// else imported concurrently.
func locateImported(items []ProjectItem, path string) ProjectItem {
	for i := len(items) - 1; i >= 0; i-- {
		if items[i] != nil && items[i].MediaPath() == path {
			return items[i]
		}
	}
	if len(items) == 0 {
		return nil
	}
	return items[len(items)-1]
}

func importPath(project Project, path string) (string, bool) {
	ok, err := project.ImportFiles([]string{path})
	if err != nil {
		return errorReply(err), false
	}
	if !ok {
		return fmt.Sprintf(MsgImportFailedFmt, path), false
	}
	return "", true
}

func projectOf(app App) Project {
	if app == nil {
		return nil
	}
	return app.Project()
}

func sequenceName(item ProjectItem) string {
	name := strings.TrimSpace(item.Name())
	if name == "" {
		name = filepath.Base(item.MediaPath())
	}
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func errorReply(err error) string {
	return "ERROR: " + err.Error()
}

func recoverInto(reply *string) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*reply = errorReply(err)
			return
		}
		*reply = fmt.Sprintf("ERROR: %v", r)
	}
}
