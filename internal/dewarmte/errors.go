package dewarmte

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for cloud API operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeAuth indicates the credential exchange failed or the token was rejected
	ErrTypeAuth ErrorType = iota
	// ErrTypeNetwork indicates a transport-level error (connection refused, timeout, etc.)
	ErrTypeNetwork
	// ErrTypeHTTP indicates an HTTP-level error (non-200 status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a parsing error (malformed JSON, unexpected shape)
	ErrTypeParse
	// ErrTypeNotFound indicates the requested device is absent from the account
	ErrTypeNotFound
	// ErrTypeUnknownSetting indicates an update was requested for a key that is not settable
	ErrTypeUnknownSetting
	// ErrTypeValidation indicates an invalid setting value
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeUnknownSetting:
		return "Unknown Setting"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError represents an error that occurred while talking to the DeWarmte cloud
type APIError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Endpoint   string    // API endpoint involved (for context)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether retrying at the next poll cycle can heal this
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Message
	if e.Endpoint != "" {
		msg = fmt.Sprintf("%s (endpoint: %s)", msg, e.Endpoint)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAuthError creates an authentication error. Auth failures are retryable
// in the sense that the caller's next poll cycle re-attempts the login.
func NewAuthError(message string) *APIError {
	return &APIError{
		Type:       ErrTypeAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Retryable:  true,
	}
}

// NewNetworkError creates a transport-level error
func NewNetworkError(message string, err error) *APIError {
	return &APIError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewHTTPError creates an HTTP-level error for a non-200 response
func NewHTTPError(statusCode int, endpoint string) *APIError {
	return &APIError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Retryable:  true,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *APIError {
	return &APIError{
		Type:      ErrTypeParse,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// NewNotFoundError creates an error for a device missing from the account
func NewNotFoundError(deviceID string) *APIError {
	return &APIError{
		Type:      ErrTypeNotFound,
		Message:   fmt.Sprintf("device %s not found in products response", deviceID),
		Retryable: true,
	}
}

// NewUnknownSettingError creates an error for a key outside the settings
// group registry. This is a contract violation, not transient flakiness:
// silently ignoring it would desync the caller from the device.
func NewUnknownSettingError(key string) *APIError {
	return &APIError{
		Type:      ErrTypeUnknownSetting,
		Message:   fmt.Sprintf("no such settable key: %q", key),
		Retryable: false,
	}
}

// NewValidationError creates an error for an invalid setting value
func NewValidationError(message string) *APIError {
	return &APIError{
		Type:      ErrTypeValidation,
		Message:   message,
		Retryable: false,
	}
}

// asAPIError extracts an APIError from anywhere in the error chain
func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Type == ErrTypeAuth
	}
	return false
}

// IsNetworkError checks if an error is a transport-level error
func IsNetworkError(err error) bool {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Type == ErrTypeNetwork
	}
	return false
}

// IsHTTPError checks if an error is an HTTP-level error
func IsHTTPError(err error) bool {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Type == ErrTypeHTTP
	}
	return false
}

// IsNotFoundError checks if an error reports a missing device
func IsNotFoundError(err error) bool {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Type == ErrTypeNotFound
	}
	return false
}

// IsUnknownSettingError checks if an error reports an unknown settings key
func IsUnknownSettingError(err error) bool {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Type == ErrTypeUnknownSetting
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Type == ErrTypeValidation
	}
	return false
}

// IsRetryable checks if the caller's periodic retry can recover from an error
func IsRetryable(err error) bool {
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Retryable
	}
	return false
}
