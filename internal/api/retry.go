package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quocvuong92/shell-ai/internal/logging"
)

// RetryPolicy bounds how often a failed completion is sent again
type RetryPolicy struct {
	// Attempts counts the first try; 1 disables retries
	Attempts   int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// DefaultRetryPolicy is used by NewClient
var DefaultRetryPolicy = RetryPolicy{
	Attempts:   3,
	Backoff:    500 * time.Millisecond,
	MaxBackoff: 5 * time.Second,
}

// Transient reports whether a provider status is worth retrying. 413 is
// not: the caller has to shrink the request instead.
func Transient(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported:
		return false
	}
	return status >= 500
}

// Delay returns the wait before retry number n (0-based). A Retry-After
// hint from the provider replaces the exponential step but is still capped.
func (p RetryPolicy) Delay(n int, retryAfter time.Duration) time.Duration {
	d := retryAfter
	if d <= 0 {
		d = p.Backoff << n
		if d <= 0 {
			d = p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		d = p.MaxBackoff
	}
	return d
}

// parseRetryAfter reads a Retry-After header given in seconds. HTTP dates
// are ignored.
func parseRetryAfter(h string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Retry calls fn until it succeeds, fails with something other than a
// transient *APIError, or the policy runs out of attempts.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(p.Attempts, 1)

	var err error
	for n := 0; n < attempts; n++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, fmt.Errorf("request cancelled: %w", ctxErr)
		}

		var result T
		result, err = fn(ctx)
		if err == nil {
			return result, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !Transient(apiErr.StatusCode) {
			return zero, err
		}
		if n == attempts-1 {
			break
		}

		wait := p.Delay(n, apiErr.RetryAfter)
		logging.Warn("Provider request failed, retrying", logging.Fields{
			"status":  apiErr.StatusCode,
			"attempt": n + 1,
			"wait":    wait.String(),
		})
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("request cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	if attempts == 1 {
		return zero, err
	}
	return zero, fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}
