package session

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired is returned when the server rejects credentials and no
	// further recovery is attempted for that request.
	ErrAuthExpired = errors.New("session expired")
	// ErrRefreshInFlight is returned for a 401 observed while another request
	// is refreshing. Callers retry on their own schedule.
	ErrRefreshInFlight = fmt.Errorf("%w: refresh already in flight", ErrAuthExpired)
	// ErrRefreshFailed means the silent refresh was rejected; the session is
	// unauthenticated afterwards and the user must log in again.
	ErrRefreshFailed  = errors.New("session refresh failed")
	ErrNotFound       = errors.New("not found")
	ErrNetworkFailure = errors.New("network failure")
)

// StatusError carries a non-2xx response that has no more specific kind.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Path, e.StatusCode)
}
