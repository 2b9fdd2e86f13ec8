package http

import (
	"net/http"

	"github.com/harvestline/agriconsole/pkg/console"
)

// statusTransportFailure stands in for the status of an attempt that never
// produced a response.
const statusTransportFailure = 0

// ShouldRetry reports whether an attempt that ended with status may be
// retried. attempt is zero-based; status 0 means the transport failed.
func ShouldRetry(status, attempt, maxRetries int) bool {
	if attempt >= maxRetries {
		return false
	}

	switch {
	case status == statusTransportFailure:
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status >= http.StatusInternalServerError:
		return true
	default:
		return false
	}
}

// ClassifyStatus maps a non-success status to its error kind. Status 0 maps
// to NetworkError.
func ClassifyStatus(status int) console.ErrorKind {
	switch {
	case status == statusTransportFailure:
		return console.ErrorKindNetworkError
	case status == http.StatusUnauthorized:
		return console.ErrorKindUnauthorized
	case status == http.StatusTooManyRequests:
		return console.ErrorKindRateLimited
	case status >= http.StatusInternalServerError:
		return console.ErrorKindServerError
	default:
		return console.ErrorKindClientError
	}
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
