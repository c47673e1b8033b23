// Package supabase talks to the hosted backend: PostgREST for directory tables and
// GoTrue for authentication.
package supabase

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"campus_life/internal/adapters/observability"
	"campus_life/internal/domain"
)

const service = "supabase"

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if key == "" {
		return nil, fmt.Errorf("anon key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// call describes one request. Only GETs are retried; auth POSTs are not idempotent.
type call struct {
	method   string
	path     string // relative to base, query included
	endpoint string // metric label
	bearer   string // user token; the anon key when empty
	body     any
}

// do performs the request with client-side rate limiting, retries, and JSON decode into out.
// 429 and 5xx responses are retried up to maxRetries times.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return transportErr(cl, err)
	}

	var payload []byte
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return err
		}
		payload = b
	}
	attempts := 1
	if cl.method == http.MethodGet {
		attempts = 4
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		// a request body cannot be replayed, so each attempt gets its own
		req, err := http.NewRequestWithContext(ctx, cl.method, c.base+cl.path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		bearer := cl.bearer
		if bearer == "" {
			bearer = c.key
		}
		req.Header.Set("apikey", c.key)
		req.Header.Set("Authorization", "Bearer "+bearer)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "campus-life/1.0")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, cl.endpoint, 0, time.Since(start))
			// transport failure or caller gave up
			if ctx.Err() != nil {
				return transportErr(cl, ctx.Err())
			}
			lastErr = transportErr(cl, err)
			if i < attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return transportErr(cl, ctx.Err())
			}
			return lastErr
		}
		observability.ObserveExternal(service, cl.endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			defer resp.Body.Close()
			if out == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return &domain.GatewayError{Op: cl.endpoint, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
			}
			return nil

		case http.StatusNoContent:
			// nothing to decode
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return &domain.GatewayError{Op: cl.endpoint, Status: resp.StatusCode, Err: domain.ErrNotFound}

		case http.StatusUnauthorized:
			msg := errorMessage(resp)
			return &domain.GatewayError{Op: cl.endpoint, Status: resp.StatusCode, Err: withMessage(domain.ErrUnauthorized, msg)}

		case http.StatusForbidden:
			msg := errorMessage(resp)
			return &domain.GatewayError{Op: cl.endpoint, Status: resp.StatusCode, Err: withMessage(domain.ErrForbidden, msg)}

		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			msg := errorMessage(resp)
			return &domain.GatewayError{Op: cl.endpoint, Status: resp.StatusCode, Err: withMessage(domain.ErrInvalidInput, msg)}

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Retry-After wins over the computed backoff.
			wait := retryAfter(resp)
			msg := errorMessage(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = &domain.GatewayError{Op: cl.endpoint, Status: resp.StatusCode, Err: errors.New(orDefault(msg, "remote unavailable"))}
			if i < attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return transportErr(cl, ctx.Err())
			}
			return lastErr

		default:
			msg := errorMessage(resp)
			return &domain.GatewayError{Op: cl.endpoint, Status: resp.StatusCode, Err: errors.New(orDefault(msg, "unexpected status"))}
		}
	}

	return lastErr
}

// transportErr reports a failure that produced no HTTP status.
func transportErr(cl call, err error) error {
	return &domain.GatewayError{Op: cl.endpoint, Err: err}
}

// errorMessage reads a small error body and extracts the message field both PostgREST
// and GoTrue use under different names. It closes the body.
func errorMessage(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	var m map[string]any
	if err := json.Unmarshal(b, &m); err == nil {
		for _, k := range []string{"error_description", "msg", "message", "error"} {
			if s, ok := m[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(b))
}

func withMessage(sentinel error, msg string) error {
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// sleepCtx pauses for d unless ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter reads a Retry-After value in delta-seconds or HTTP-date form; 0 means none usable.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	// seconds form
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	// HTTP-date form
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand, which is safe for concurrent use.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
