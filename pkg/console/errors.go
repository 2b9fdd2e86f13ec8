package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a terminal API failure.
type ErrorKind int

// Error kinds.
const (
	ErrorKindUnauthorized ErrorKind = iota + 1
	ErrorKindClientError
	ErrorKindRateLimited
	ErrorKindServerError
	ErrorKindNetworkError
	ErrorKindParseError
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnauthorized:
		return "unauthorized"
	case ErrorKindClientError:
		return "client_error"
	case ErrorKindRateLimited:
		return "rate_limited"
	case ErrorKindServerError:
		return "server_error"
	case ErrorKindNetworkError:
		return "network_error"
	case ErrorKindParseError:
		return "parse_error"
	default:
		return "unknown"
	}
}

// APIError is the error returned for every terminal failure of an API call.
// Error() returns Message verbatim so callers can display it as-is.
type APIError struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// StatusCode is the HTTP status (0 when no response was received).
	StatusCode int
	// Message is the human-readable text for the screen that made the call.
	Message string
	// Body is the raw response body, if any.
	Body []byte
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Detailed returns the message prefixed with kind and status, for logs.
func (e *APIError) Detailed() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// errorBody is the optional shape of a failure body.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ErrorMessage extracts the text to surface for a failed response: the body's
// "message" field, else its "error" field, else a fallback built from the
// status code.
func ErrorMessage(statusCode int, body []byte) string {
	var parsed errorBody

	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		if msg := strings.TrimSpace(parsed.Message); msg != "" {
			return msg
		}

		if msg := strings.TrimSpace(parsed.Error); msg != "" {
			return msg
		}
	}

	return FallbackMessage(statusCode)
}

// FallbackMessage formats "HTTP <status>: <status text>".
func FallbackMessage(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		text = "An error occurred"
	}

	return fmt.Sprintf("HTTP %d: %s", statusCode, text)
}

// KindOf returns the kind of err, or 0 if err is not an *APIError.
func KindOf(err error) ErrorKind {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return 0
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return KindOf(err) == ErrorKindUnauthorized
}

// IsClientError checks if the error is a non-retryable 4xx error.
func IsClientError(err error) bool {
	return KindOf(err) == ErrorKindClientError
}

// IsRateLimited checks if the error is a rate limit error.
func IsRateLimited(err error) bool {
	return KindOf(err) == ErrorKindRateLimited
}

// IsServerError checks if the error is a 5xx error.
func IsServerError(err error) bool {
	return KindOf(err) == ErrorKindServerError
}

// IsNetworkError checks if the error is a transport failure.
func IsNetworkError(err error) bool {
	return KindOf(err) == ErrorKindNetworkError
}

// IsParseError checks if the error is a response decoding failure.
func IsParseError(err error) bool {
	return KindOf(err) == ErrorKindParseError
}

// IsNotFound checks if the error is a 404 client error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrAPIEndpointRequired = errors.New("API endpoint is required")
	ErrInvalidPortal       = errors.New("invalid portal")
)
