package buildin

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by errors for unknown pages or blocks
var ErrNotFound = errors.New("not found")

// TransportError is returned when a Buildin API call fails or answers with
// a payload that can not be used.
type TransportError struct {
	Op         string // API operation, e.g. "getPage"
	StatusCode int    // HTTP status, 0 if no response was received
	Message    string // message reported by the API
	Err        error
}

func (e *TransportError) Error() string {
	msg := "buildin " + e.Op + " failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" with status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports 404 responses as ErrNotFound
func (e *TransportError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
