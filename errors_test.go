package tempmail

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/devtint/tempmail/internal/api"
)

var (
	_ TempMailError = (*APIError)(nil)
	_ TempMailError = (*NetworkError)(nil)
	_ TempMailError = (*TimeoutError)(nil)
)

func TestAPIError_SentinelMapping(t *testing.T) {
	tests := []struct {
		status int
		target error
		want   bool
	}{
		{401, ErrLoginFailed, true},
		{404, ErrMessageNotFound, true},
		{401, ErrMessageNotFound, false},
		{500, ErrLoginFailed, false},
		{500, ErrMessageNotFound, false},
	}

	for _, tt := range tests {
		err := &APIError{StatusCode: tt.status}
		if got := errors.Is(err, tt.target); got != tt.want {
			t.Errorf("errors.Is(APIError{%d}, %v) = %v, want %v", tt.status, tt.target, got, tt.want)
		}
	}
}

func TestTimeoutError_Sentinel(t *testing.T) {
	err := &TimeoutError{Kind: WaitCode, Timeout: 30 * time.Second}
	if !errors.Is(err, ErrWaitTimeout) {
		t.Error("TimeoutError does not match ErrWaitTimeout")
	}
	if errors.Is(err, ErrLoginFailed) {
		t.Error("TimeoutError matches ErrLoginFailed")
	}
	if msg := err.Error(); msg == "" {
		t.Error("empty error message")
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &NetworkError{Err: inner, URL: "https://api.mail.tm/domains"}
	if !errors.Is(err, inner) {
		t.Error("NetworkError does not unwrap to its cause")
	}
}

func TestWrapError(t *testing.T) {
	if wrapError(nil) != nil {
		t.Error("wrapError(nil) != nil")
	}

	wrapped := wrapError(fmt.Errorf("call: %w", &api.APIError{StatusCode: 401, Message: "nope"}))
	var apiErr *APIError
	if !errors.As(wrapped, &apiErr) {
		t.Fatalf("wrapError() = %T, want *APIError", wrapped)
	}
	if apiErr.StatusCode != 401 || apiErr.Message != "nope" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if !errors.Is(wrapped, ErrLoginFailed) {
		t.Error("wrapped 401 does not match ErrLoginFailed")
	}

	cause := errors.New("dial tcp: refused")
	wrapped = wrapError(&api.NetworkError{Err: cause, URL: "https://api.mail.tm"})
	var netErr *NetworkError
	if !errors.As(wrapped, &netErr) {
		t.Fatalf("wrapError() = %T, want *NetworkError", wrapped)
	}
	if netErr.URL != "https://api.mail.tm" || !errors.Is(netErr, cause) {
		t.Errorf("NetworkError = %+v", netErr)
	}

	plain := errors.New("something else")
	if wrapError(plain) != plain {
		t.Error("wrapError() rewrote an unrelated error")
	}
}
