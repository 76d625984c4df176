package hostbridge

import (
	"strings"

	"creditspanel/internal/services"
)

// Reply prefixes of the host calling convention.
const (
	PrefixOK    = "OK:"
	PrefixError = "ERROR:"
)

// EvalFailure is the host engine's reply when the snippet itself threw.
const EvalFailure = "EvalScript error."

// Reply is a parsed host response.
type Reply struct {
	OK      bool
	Message string
	Raw     string
}

// ParseReply classifies raw by its fixed prefix. A reply carrying neither
// prefix returns a *ProtocolError.
func ParseReply(raw string) (Reply, error) {
	switch {
	case strings.HasPrefix(raw, PrefixOK):
		return Reply{OK: true, Message: strings.TrimSpace(strings.TrimPrefix(raw, PrefixOK)), Raw: raw}, nil
	case strings.HasPrefix(raw, PrefixError):
		return Reply{OK: false, Message: strings.TrimSpace(strings.TrimPrefix(raw, PrefixError)), Raw: raw}, nil
	default:
		return Reply{Raw: raw}, &ProtocolError{Reply: raw}
	}
}

// Err converts a well-formed ERROR reply into an *OperationError.
func (r Reply) Err() error {
	if r.OK {
		return nil
	}
	return &OperationError{Message: r.Message, Reply: r.Raw}
}

// ProtocolError reports a reply without the expected prefix.
type ProtocolError struct {
	Reply string
}

func (e *ProtocolError) Error() string {
	if e.Reply == "" {
		return "host returned an empty reply"
	}
	return e.Reply
}

// Is classifies ProtocolError as a host protocol failure.
func (e *ProtocolError) Is(target error) bool {
	return target == services.ErrHostProtocol
}

// OperationError reports a well-formed "ERROR: ..." reply. Error returns the
// raw reply so banners can show it unchanged.
type OperationError struct {
	Message string
	Reply   string
}

func (e *OperationError) Error() string {
	if e.Reply != "" {
		return e.Reply
	}
	return PrefixError + " " + e.Message
}

// Is classifies OperationError as a host operation failure.
func (e *OperationError) Is(target error) bool {
	return target == services.ErrHostOperation
}

// QuoteString renders s as a double-quoted snippet literal.
func QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Call builds fn("arg1","arg2",...).
func Call(fn string, args ...string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = QuoteString(arg)
	}
	return fn + "(" + strings.Join(quoted, ",") + ")"
}
