package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrServer      = errors.New("server error")
)

// APIError carries the status and message of a non-2xx reply. It unwraps to
// the matching sentinel from internal/common where one exists, or ErrServer.
type APIError struct {
	StatusCode int
	Msg        string
	kind       error
}

func (e *APIError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Msg)
}

func (e *APIError) Unwrap() error { return e.kind }
