package tempmail

import (
	"errors"
	"fmt"
	"time"

	"github.com/devtint/tempmail/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrNoDomains is returned when the provider has no domains available
	// for account creation.
	ErrNoDomains = errors.New("no domains available")

	// ErrNoSession is returned when an operation requires an active session.
	ErrNoSession = errors.New("no active session")

	// ErrLoginFailed is returned when credential exchange is rejected.
	ErrLoginFailed = errors.New("login failed")

	// ErrMessageNotFound is returned when a message id does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrWaitTimeout is returned when a wait condition is not met in time.
	ErrWaitTimeout = errors.New("wait timed out")
)

// TempMailError is implemented by all SDK errors.
type TempMailError interface {
	error
	TempMailError() // marker method
}

// APIError represents an HTTP error from the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error %d", e.StatusCode)
}

// TempMailError implements the TempMailError interface.
func (e *APIError) TempMailError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrLoginFailed
	case 404:
		return target == ErrMessageNotFound
	}
	return false
}

// NetworkError represents a transport-level failure.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TempMailError implements the TempMailError interface.
func (e *NetworkError) TempMailError() {}

// TimeoutError is returned when a wait condition was not met before the
// deadline. It does not distinguish "nothing arrived" from repeated
// provider failures during polling.
type TimeoutError struct {
	Kind    WaitKind
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("wait for %s timed out after %v", e.Kind, e.Timeout)
}

// Is implements errors.Is for sentinel error matching.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrWaitTimeout
}

// TempMailError implements the TempMailError interface.
func (e *TimeoutError) TempMailError() {}

// wrapError converts internal API errors to public errors so that
// errors.Is() checks work with the package sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err: netErr.Err,
			URL: netErr.URL,
		}
	}

	return err
}
