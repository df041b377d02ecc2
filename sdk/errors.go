package authrelay

import (
	"errors"
	"fmt"
)

// APIError is returned when the server responds with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authrelay: HTTP %d: %s", e.StatusCode, e.Message)
}

// ErrPopupBlocked means the popup opener refused to open the consent window.
// Polling never starts in that case.
var ErrPopupBlocked = errors.New("authrelay: popup blocked")

// ErrTimeout means the status-check budget was exhausted without a terminal
// result. The flow must be restarted.
var ErrTimeout = errors.New("authrelay: login timed out")
