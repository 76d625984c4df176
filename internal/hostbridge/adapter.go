package hostbridge

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"creditspanel/internal/logging"
	"creditspanel/internal/services"
)

const component = "hostbridge"

// Host-side function names.
const (
	FnProjectName            = "getProjectName"
	FnActiveSequenceName     = "getActiveSequenceName"
	FnImportAndAddToTimeline = "importAndAddToTimeline"
	FnImportVideo            = "importVideo"
	FnWriteBase64File        = "writeBase64File"
)

// Evaluator sends a snippet to the host engine and returns its single reply.
type Evaluator interface {
	EvalScript(ctx context.Context, script string) (string, error)
}

// ProjectContext is a read-once snapshot of the host's open project.
type ProjectContext struct {
	ProjectName  string
	SequenceName string
	ReadAt       time.Time
}

// HasProject reports whether a project is open.
func (p ProjectContext) HasProject() bool {
	return p.ProjectName != ""
}

// Describe renders the panel's project line.
func (p ProjectContext) Describe() string {
	if p.ProjectName == "" {
		return "No project open"
	}
	text := "Project: " + p.ProjectName
	if p.SequenceName != "" {
		text += " | Sequence: " + p.SequenceName
	}
	return text
}

// Adapter issues typed operations over an Evaluator.
type Adapter struct {
	eval    Evaluator
	timeout time.Duration
	logger  *slog.Logger
}

// NewAdapter wraps eval. A positive timeout bounds each call.
func NewAdapter(eval Evaluator, timeout time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{eval: eval, timeout: timeout, logger: logging.NewComponentLogger(logger, component)}
}

// ProjectName returns the open project's name, or "" when none is open.
func (a *Adapter) ProjectName(ctx context.Context) (string, error) {
	return a.readName(ctx, FnProjectName)
}

// ActiveSequenceName returns the active sequence's name, or "" when none is active.
func (a *Adapter) ActiveSequenceName(ctx context.Context) (string, error) {
	return a.readName(ctx, FnActiveSequenceName)
}

// ProjectContext reads the project and sequence names. The sequence is only
// queried when a project is open.
func (a *Adapter) ProjectContext(ctx context.Context) (ProjectContext, error) {
	project, err := a.ProjectName(ctx)
	if err != nil {
		return ProjectContext{}, err
	}
	snapshot := ProjectContext{ProjectName: project, ReadAt: time.Now()}
	if project == "" {
		return snapshot, nil
	}
	seq, err := a.ActiveSequenceName(ctx)
	if err != nil {
		return ProjectContext{}, err
	}
	snapshot.SequenceName = seq
	return snapshot, nil
}

// ImportAndAddToTimeline imports localPath and places it on the timeline. A
// well-formed ERROR reply is returned alongside an *OperationError; a reply
// with neither prefix yields a *ProtocolError.
func (a *Adapter) ImportAndAddToTimeline(ctx context.Context, localPath string) (Reply, error) {
	raw, err := a.call(ctx, Call(FnImportAndAddToTimeline, localPath))
	if err != nil {
		return Reply{}, err
	}
	reply, err := ParseReply(raw)
	if err != nil {
		logging.WithContext(ctx, a.logger).Warn("host reply violated protocol", logging.String("reply", raw))
		return reply, err
	}
	if !reply.OK {
		return reply, reply.Err()
	}
	logging.WithContext(ctx, a.logger).Info("host import complete", logging.String("reply", reply.Message))
	return reply, nil
}

// ImportVideo imports localPath into the project without touching the
// timeline and returns the imported path.
func (a *Adapter) ImportVideo(ctx context.Context, localPath string) (string, error) {
	raw, err := a.call(ctx, Call(FnImportVideo, localPath))
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(raw, PrefixError) {
		reply, _ := ParseReply(raw)
		return "", reply.Err()
	}
	if raw == "" || raw == EvalFailure {
		return "", &ProtocolError{Reply: raw}
	}
	return raw, nil
}

// WriteBase64 asks the host to decode payload into path. It satisfies transfer.Sink.
func (a *Adapter) WriteBase64(ctx context.Context, path, payload string) error {
	raw, err := a.call(ctx, Call(FnWriteBase64File, path, payload))
	if err != nil {
		return err
	}
	reply, err := ParseReply(raw)
	if err != nil {
		return err
	}
	return reply.Err()
}

func (a *Adapter) readName(ctx context.Context, fn string) (string, error) {
	raw, err := a.call(ctx, fn+"()")
	if err != nil {
		return "", err
	}
	if raw == EvalFailure {
		return "", &ProtocolError{Reply: raw}
	}
	return strings.TrimSpace(raw), nil
}

func (a *Adapter) call(ctx context.Context, script string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	raw, err := a.eval.EvalScript(ctx, script)
	if err != nil {
		return "", services.Wrap(services.ErrHostProtocol, component, "eval", "", err)
	}
	return raw, nil
}
