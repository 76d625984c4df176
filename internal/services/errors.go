package services

import (
	"errors"
	"fmt"
	"strings"
)

// Failure markers. Every error leaving a pipeline boundary is tagged with
// exactly one of these so the panel can classify it without string matching.
var (
	ErrValidation    = errors.New("validation error")
	ErrTransport     = errors.New("transport error")
	ErrServer        = errors.New("server error")
	ErrLocalWrite    = errors.New("local write error")
	ErrHostProtocol  = errors.New("host protocol error")
	ErrHostOperation = errors.New("host operation error")
	ErrBusy          = errors.New("operation already in flight")
)

// Wrap builds an error message that includes component context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind names the failure class of err, or "" when err carries no marker.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	case errors.Is(err, ErrServer):
		return "ServerError"
	case errors.Is(err, ErrLocalWrite):
		return "LocalWriteError"
	case errors.Is(err, ErrHostOperation):
		return "HostOperationError"
	case errors.Is(err, ErrHostProtocol):
		return "HostProtocolError"
	case errors.Is(err, ErrBusy):
		return "Busy"
	case errors.Is(err, ErrTransport):
		return "TransportError"
	default:
		return ""
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "panel failure"
	}
	return strings.Join(parts, ": ")
}
