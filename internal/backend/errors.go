package backend

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"creditspanel/internal/services"
)

// StatusError reports a non-2xx response that carried no structured error.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.Status)
}

// Is classifies StatusError as a transport failure.
func (e *StatusError) Is(target error) bool {
	return target == services.ErrTransport
}

// ServerError carries the {error} message the backend reported.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Is classifies ServerError as a server-reported failure.
func (e *ServerError) Is(target error) bool {
	return target == services.ErrServer
}

// IsUnavailable reports whether err means the backend could not be reached at all.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// StatusCode extracts the HTTP status from a StatusError or ServerError.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	var srv *ServerError
	if errors.As(err, &srv) && srv.Status != 0 {
		return srv.Status, true
	}
	return 0, false
}
