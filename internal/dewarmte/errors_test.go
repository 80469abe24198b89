package dewarmte

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAPIError_ErrorMessage(t *testing.T) {
	err := NewHTTPError(500, "GET /customer/products/")

	msg := err.Error()
	if !strings.Contains(msg, "HTTP Error") {
		t.Errorf("Error() = %q, should contain the type name", msg)
	}
	if !strings.Contains(msg, "500") {
		t.Errorf("Error() = %q, should contain the status code", msg)
	}
	if !strings.Contains(msg, "GET /customer/products/") {
		t.Errorf("Error() = %q, should contain the endpoint", msg)
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewNetworkError("request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the underlying cause")
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("Error() = %q, should contain the cause", err.Error())
	}
}

func TestErrorTypeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"auth", NewAuthError("login rejected"), IsAuthError},
		{"network", NewNetworkError("dial failed", errors.New("refused")), IsNetworkError},
		{"http", NewHTTPError(502, "GET /x"), IsHTTPError},
		{"not found", NewNotFoundError("dev-1"), IsNotFoundError},
		{"unknown setting", NewUnknownSettingError("bogus"), IsUnknownSettingError},
		{"validation", NewValidationError("out of range"), IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("helper returned false for its own error type")
			}
			// Helpers must see through wrapping.
			wrapped := fmt.Errorf("updating settings: %w", tt.err)
			if !tt.check(wrapped) {
				t.Errorf("helper returned false for a wrapped error")
			}
			// And never match a foreign error.
			if tt.check(errors.New("plain error")) {
				t.Errorf("helper returned true for a plain error")
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(NewAuthError("x")) {
		t.Error("auth errors heal at the next poll cycle; want retryable")
	}
	if !IsRetryable(NewNetworkError("x", nil)) {
		t.Error("network errors should be retryable")
	}
	if IsRetryable(NewValidationError("x")) {
		t.Error("validation errors never heal by retrying")
	}
	if IsRetryable(NewUnknownSettingError("x")) {
		t.Error("unknown-setting errors never heal by retrying")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors should not be retryable")
	}
}

func TestErrorTypeString(t *testing.T) {
	if ErrTypeAuth.String() != "Authentication Error" {
		t.Errorf("ErrTypeAuth.String() = %q", ErrTypeAuth.String())
	}
	if got := ErrorType(99).String(); !strings.Contains(got, "99") {
		t.Errorf("unknown type String() = %q, should contain the raw value", got)
	}
}
