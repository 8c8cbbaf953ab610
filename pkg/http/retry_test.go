package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSendAndParseWithRetryExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(WithTimeout(time.Second))
	err := c.SendAndParseWithRetry(context.Background(),
		&RequestOptions{Method: MethodGet, URL: srv.URL}, nil,
		RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 StatusError, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
}

func TestSendAndParseWithRetryRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var body struct {
		OK bool `json:"ok"`
	}
	c := NewClient(WithTimeout(time.Second))
	err := c.SendAndParseWithRetry(context.Background(),
		&RequestOptions{Method: MethodGet, URL: srv.URL}, &body,
		RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("expected recovery on third attempt: %v", err)
	}
	if !body.OK {
		t.Fatalf("body not decoded: %+v", body)
	}
}

func TestSendAndParseWithRetryDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithTimeout(time.Second))
	err := c.SendAndParseWithRetry(context.Background(),
		&RequestOptions{Method: MethodGet, URL: srv.URL}, nil,
		RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", got)
	}
}

func TestSendAndParseWithRetryHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	start := time.Now()
	c := NewClient(WithTimeout(2 * time.Second))
	err := c.SendAndParseWithRetry(context.Background(),
		&RequestOptions{Method: MethodGet, URL: srv.URL}, nil,
		RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Fatalf("Retry-After ignored, waited only %v", elapsed)
	}
}

func TestParseRetryAfterFormats(t *testing.T) {
	if d := parseRetryAfter("5"); d != 5*time.Second {
		t.Fatalf("seconds form: got %v", d)
	}
	if d := parseRetryAfter(""); d != 0 {
		t.Fatalf("empty header: got %v", d)
	}
	if d := parseRetryAfter("garbage"); d != 0 {
		t.Fatalf("bad header: got %v", d)
	}
}
