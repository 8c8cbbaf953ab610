package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig bounds the retry loop.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryConfig matches upstream rate-limit behaviour: three attempts
// with exponential backoff from one second.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// SendAndParseWithRetry is SendAndParse with retries on transport errors and
// throttling responses (429, 503). A Retry-After header overrides the
// computed backoff. The last error is returned once attempts run out.
func (c *Client) SendAndParseWithRetry(ctx context.Context, opts *RequestOptions, dest interface{}, rc RetryConfig) error {
	if rc.MaxAttempts <= 0 {
		rc.MaxAttempts = 1
	}
	if rc.BaseDelay <= 0 {
		rc.BaseDelay = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= rc.MaxAttempts; attempt++ {
		resp, err := c.SendRequest(ctx, opts)
		if err == nil {
			err = parseResponse(resp, dest)
			if err == nil {
				return nil
			}
		}
		lastErr = err

		if !retryable(err) || attempt == rc.MaxAttempts {
			return lastErr
		}

		delay := rc.BaseDelay << (attempt - 1)
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
			delay = statusErr.RetryAfter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// retryable reports whether an error is transient. Transport failures never
// produce a StatusError; HTTP errors retry only on throttling statuses.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests ||
			statusErr.Code == http.StatusServiceUnavailable
	}
	var parseErr *parseError
	return !errors.As(err, &parseErr)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
