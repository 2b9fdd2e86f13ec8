package http_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	consolehttp "github.com/harvestline/agriconsole/internal/http"
	"github.com/harvestline/agriconsole/pkg/console"
)

func TestShouldRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status     int
		attempt    int
		maxRetries int
		expected   bool
	}{
		{status: 200, attempt: 0, maxRetries: 3, expected: false},
		{status: 204, attempt: 0, maxRetries: 3, expected: false},
		{status: 304, attempt: 0, maxRetries: 3, expected: false},
		{status: 400, attempt: 0, maxRetries: 3, expected: false},
		{status: 401, attempt: 0, maxRetries: 3, expected: false},
		{status: 403, attempt: 0, maxRetries: 3, expected: false},
		{status: 404, attempt: 0, maxRetries: 3, expected: false},
		{status: 422, attempt: 0, maxRetries: 3, expected: false},
		{status: 429, attempt: 0, maxRetries: 3, expected: true},
		{status: 429, attempt: 3, maxRetries: 3, expected: false},
		{status: 500, attempt: 2, maxRetries: 3, expected: true},
		{status: 502, attempt: 3, maxRetries: 3, expected: false},
		{status: 503, attempt: 0, maxRetries: 0, expected: false},
		{status: 599, attempt: 1, maxRetries: 3, expected: true},
		{status: 0, attempt: 0, maxRetries: 1, expected: true},
		{status: 0, attempt: 1, maxRetries: 1, expected: false},
	}

	for _, tt := range tests {
		tt := tt
		name := fmt.Sprintf("status %d attempt %d of %d", tt.status, tt.attempt, tt.maxRetries)
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, consolehttp.ShouldRetry(tt.status, tt.attempt, tt.maxRetries))
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   int
		expected console.ErrorKind
	}{
		{status: 0, expected: console.ErrorKindNetworkError},
		{status: 400, expected: console.ErrorKindClientError},
		{status: 401, expected: console.ErrorKindUnauthorized},
		{status: 403, expected: console.ErrorKindClientError},
		{status: 404, expected: console.ErrorKindClientError},
		{status: 409, expected: console.ErrorKindClientError},
		{status: 429, expected: console.ErrorKindRateLimited},
		{status: 500, expected: console.ErrorKindServerError},
		{status: 504, expected: console.ErrorKindServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, consolehttp.ClassifyStatus(tt.status))
		})
	}
}

func TestDelayFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attempt  int
		base     time.Duration
		expected time.Duration
	}{
		{attempt: 0, base: time.Second, expected: time.Second},
		{attempt: 1, base: time.Second, expected: 2 * time.Second},
		{attempt: 2, base: time.Second, expected: 4 * time.Second},
		{attempt: 3, base: 500 * time.Millisecond, expected: 4 * time.Second},
		{attempt: 10, base: time.Second, expected: 1024 * time.Second},
		{attempt: -1, base: time.Second, expected: time.Second},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("attempt %d base %s", tt.attempt, tt.base), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, consolehttp.DelayFor(tt.attempt, tt.base))
		})
	}
}
