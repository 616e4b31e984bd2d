// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/config"
)

// portalUserIDPattern extracts the numeric user id from "28@learn.concord.org".
var portalUserIDPattern = regexp.MustCompile(`^(\d+)(@|$)`)

// portalUser is the subset of /api/v1/users/<id> the report needs.
type portalUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PortalClient looks up teacher names on the Portal. The bearer token comes
// from the report request, so each request uses WithToken.
type PortalClient struct {
	baseURL string
	token   string
	http    *httpClient
}

// NewPortalClient creates a client for cfg.Server with no token.
func NewPortalClient(cfg config.PortalConfig) *PortalClient {
	return &PortalClient{
		baseURL: baseURL(cfg.Server),
		http:    newHTTPClient("portal", cfg.Timeout, cfg.RequestsPerSecond),
	}
}

// WithToken returns a client that authenticates with token. The copy shares
// the HTTP client, pacing, and circuit breaker.
func (c *PortalClient) WithToken(token string) *PortalClient {
	clone := *c
	clone.token = token
	return &clone
}

// PortalUserID returns the numeric Portal id embedded in a log username.
func PortalUserID(username string) (string, bool) {
	m := portalUserIDPattern.FindStringSubmatch(strings.TrimSpace(username))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TeacherName implements IdentitySource.
func (c *PortalClient) TeacherName(ctx context.Context, id string) (string, error) {
	userID, ok := PortalUserID(id)
	if !ok {
		return "", fmt.Errorf("%w: no portal user id in %q", ErrNotFound, id)
	}
	userURL := fmt.Sprintf("%s/api/v1/users/%s", c.baseURL, userID)

	body, err := c.http.fetch(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, userURL, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch portal user %s: %w", userID, err)
	}

	var user portalUser
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("failed to decode portal user %s: %w", userID, err)
	}
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name == "" {
		return "", fmt.Errorf("%w: portal user %s has no name", ErrEmptyContent, userID)
	}
	return name, nil
}

// Service implements BreakerReporter.
func (c *PortalClient) Service() string { return c.http.Service() }

// BreakerState implements BreakerReporter.
func (c *PortalClient) BreakerState() string { return c.http.BreakerState() }
