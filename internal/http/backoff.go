package http

import (
	"net/http"
	"time"

	"github.com/harvestline/agriconsole/internal/constants"
)

// DelayFor returns how long to wait before retry attempt+1: base * 2^attempt.
// There is no ceiling and no jitter.
func DelayFor(attempt int, base time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := base
	for i := 0; i < attempt; i++ {
		delay *= constants.ExponentialBackoffBase
	}

	return delay
}

// backoff is installed as the retryablehttp Backoff hook. The min/max it is
// handed are the client's own base and cap.
func (c *Client) backoff(base, maxDelay time.Duration, attemptNum int, _ *http.Response) time.Duration {
	delay := DelayFor(attemptNum, base)
	if maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}

	return delay
}
