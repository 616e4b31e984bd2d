// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/metrics"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads at most 64KB of an error response for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// requestFunc builds a fresh request for each attempt. Bodies cannot be
// replayed, so retries never reuse a request.
type requestFunc func(ctx context.Context) (*http.Request, error)

// httpClient is the request path shared by every upstream client.
type httpClient struct {
	service        string
	client         *http.Client
	limiter        *rate.Limiter // nil when unpaced
	breaker        *circuitBreaker
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
	logger         zerolog.Logger
}

// newHTTPClient creates the shared client for one service. A positive
// requestsPerSecond paces outgoing requests with a token bucket.
func newHTTPClient(service string, timeout time.Duration, requestsPerSecond float64) *httpClient {
	c := &httpClient{
		service: service,
		client: &http.Client{
			Timeout: timeout,
		},
		breaker:        newCircuitBreaker(service),
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
		logger:         logging.WithComponent("upstream").With().Str("service", service).Logger(),
	}
	if requestsPerSecond > 0 {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
	return c
}

// fetch performs the request under the circuit breaker and returns the body
// of a 2xx response. 404 maps to ErrNotFound and an empty body to
// ErrEmptyContent; any other status is a *StatusError.
func (c *httpClient) fetch(ctx context.Context, newRequest requestFunc) ([]byte, error) {
	return c.breaker.execute(func() ([]byte, error) {
		return c.fetchOnce(ctx, newRequest)
	})
}

func (c *httpClient) fetchOnce(ctx context.Context, newRequest requestFunc) ([]byte, error) {
	resp, err := c.doRequestWithRateLimit(ctx, newRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reqURL := resp.Request.URL.Redacted()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, reqURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Service:    c.service,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
		c.logger.Warn().Str("url", reqURL).Int("status", resp.StatusCode).Msg("Upstream request failed")
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", c.service, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, reqURL)
	}
	return body, nil
}

// doRequestWithRateLimit performs an HTTP request with automatic rate limit handling.
// Implements exponential backoff for HTTP 429 responses (1s, 2s, 4s, 8s, 16s).
// The context is used for cancellation during pacing and backoff waits.
func (c *httpClient) doRequestWithRateLimit(ctx context.Context, newRequest requestFunc) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("request pacing interrupted: %w", err)
			}
		}

		req, err := newRequest(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordUpstreamRequest(c.service, 0, time.Since(start))
			c.logger.Warn().Err(err).Str("url", req.URL.Redacted()).Msg("Upstream transport failure")
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		metrics.RecordUpstreamRequest(c.service, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		_ = resp.Body.Close()
		metrics.UpstreamRateLimited.WithLabelValues(c.service).Inc()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

		// Retry-After in seconds (RFC 6585)
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		c.logger.Debug().Int("attempt", attempt+1).Dur("delay", delay).Msg("Rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// Service returns the upstream name used in metrics and logs.
func (c *httpClient) Service() string { return c.service }

// BreakerState returns "closed", "half-open" or "open".
func (c *httpClient) BreakerState() string { return c.breaker.State() }
