// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/config"
)

// AuthoringClient fetches module exports from the LARA authoring service.
//
// Example:
//
//	client := upstream.NewAuthoringClient(cfg.Authoring)
//	raw, err := client.FetchModule(ctx, "sequence", "55")
type AuthoringClient struct {
	baseURL string
	apiKey  string
	http    *httpClient
}

// NewAuthoringClient creates a client for cfg.Server. A bare host name is
// reached over https.
func NewAuthoringClient(cfg config.AuthoringConfig) *AuthoringClient {
	return &AuthoringClient{
		baseURL: baseURL(cfg.Server),
		apiKey:  cfg.APIKey,
		http:    newHTTPClient("authoring", cfg.Timeout, cfg.RequestsPerSecond),
	}
}

// ExportURL returns the export.json URL for a module.
func (c *AuthoringClient) ExportURL(moduleType, id string) string {
	collection := "activities"
	if strings.HasPrefix(moduleType, "sequence") {
		collection = "sequences"
	}
	return fmt.Sprintf("%s/%s/%s/export.json", c.baseURL, collection, url.PathEscape(id))
}

// FetchModule implements ContentSource.
func (c *AuthoringClient) FetchModule(ctx context.Context, moduleType, id string) (json.RawMessage, error) {
	exportURL := c.ExportURL(moduleType, id)

	body, err := c.http.fetch(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", moduleType, id, err)
	}
	return json.RawMessage(body), nil
}

// baseURL turns a configured server into a URL prefix without a trailing slash.
func baseURL(server string) string {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if strings.Contains(server, "://") {
		return server
	}
	return "https://" + server
}

// Service implements BreakerReporter.
func (c *AuthoringClient) Service() string { return c.http.Service() }

// BreakerState implements BreakerReporter.
func (c *AuthoringClient) BreakerState() string { return c.http.BreakerState() }
