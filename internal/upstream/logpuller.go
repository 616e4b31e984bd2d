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
	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/models"
)

// LogPullerClient downloads raw events for a portal-signed log request.
// Requests from a production portal domain go to the production log-puller;
// everything else goes to staging.
type LogPullerClient struct {
	productionURL     string
	stagingURL        string
	productionDomains map[string]bool
	http              *httpClient
}

// NewLogPullerClient creates a client from cfg.
func NewLogPullerClient(cfg config.LogPullerConfig) *LogPullerClient {
	domains := make(map[string]bool, len(cfg.ProductionDomains))
	for _, d := range cfg.ProductionDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains[d] = true
		}
	}
	return &LogPullerClient{
		productionURL:     cfg.ProductionURL,
		stagingURL:        cfg.StagingURL,
		productionDomains: domains,
		http:              newHTTPClient("log_puller", cfg.Timeout, 0),
	}
}

// URLFor returns the log-puller endpoint serving requests from domain.
func (c *LogPullerClient) URLFor(domain string) string {
	if c.productionDomains[strings.ToLower(strings.TrimSpace(domain))] {
		return c.productionURL
	}
	return c.stagingURL
}

// FetchEvents implements EventSource.
func (c *LogPullerClient) FetchEvents(ctx context.Context, req LogRequest) ([]models.RawEvent, error) {
	endpoint := c.URLFor(req.Query.Domain)

	form := url.Values{}
	form.Set("json", req.JSON)
	form.Set("signature", req.Signature)
	form.Set("format", "json")
	form.Set("explode", "no")
	form.Set("download", "Download Logs")
	encoded := form.Encode()

	logging.CtxInfo(ctx).
		Str("domain", req.Query.Domain).
		Str("url", endpoint).
		Int("users", len(req.Query.Users)).
		Int("runnables", len(req.Query.Runnables)).
		Msg("Requesting event log")

	body, err := c.http.fetch(ctx, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.Header.Set("Accept", "application/json")
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event log: %w", err)
	}

	return decodeEvents(body)
}

// decodeEvents parses a JSON array of raw events.
func decodeEvents(body []byte) ([]models.RawEvent, error) {
	var events []models.RawEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to decode event log: %w", err)
	}
	return events, nil
}

// Service implements BreakerReporter.
func (c *LogPullerClient) Service() string { return c.http.Service() }

// BreakerState implements BreakerReporter.
func (c *LogPullerClient) BreakerState() string { return c.http.BreakerState() }
