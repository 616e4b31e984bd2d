// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/models"
)

// Logical misses. Transport failures are returned as-is or as *StatusError.
var (
	ErrNotFound     = errors.New("upstream: not found")
	ErrEmptyContent = errors.New("upstream: empty content")
)

// EventSource supplies raw interaction events for a report request.
type EventSource interface {
	FetchEvents(ctx context.Context, req LogRequest) ([]models.RawEvent, error)
}

// ContentSource supplies the raw export of an authored module.
// moduleType is the prefix of an external id, e.g. "sequence" or "activity".
type ContentSource interface {
	FetchModule(ctx context.Context, moduleType, id string) (json.RawMessage, error)
}

// IdentitySource maps a teacher id to a display name.
type IdentitySource interface {
	TeacherName(ctx context.Context, id string) (string, error)
}

// LogRequest is a portal-signed log query. JSON and Signature are forwarded
// verbatim; Query is the decoded form of JSON.
type LogRequest struct {
	JSON      string
	Signature string
	Query     models.LogRequest
}

// NewLogRequest decodes the signed request JSON.
func NewLogRequest(rawJSON, signature string) (LogRequest, error) {
	req := LogRequest{JSON: rawJSON, Signature: signature}
	if err := json.Unmarshal([]byte(rawJSON), &req.Query); err != nil {
		return LogRequest{}, fmt.Errorf("failed to decode log request: %w", err)
	}
	return req, nil
}

// StatusError is a non-success HTTP status from an upstream service.
type StatusError struct {
	Service    string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s request to %s failed with status %d", e.Service, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s request to %s failed with status %d: %s", e.Service, e.URL, e.StatusCode, body)
}

// BreakerReporter is implemented by clients guarded by a circuit breaker.
type BreakerReporter interface {
	Service() string
	BreakerState() string
}
