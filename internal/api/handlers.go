// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package api

import (
	"time"

	"github.com/tomtom215/tereport/internal/cache"
	"github.com/tomtom215/tereport/internal/config"
	"github.com/tomtom215/tereport/internal/reportdata"
	"github.com/tomtom215/tereport/internal/upstream"
)

// IdentityProvider returns the identity source for one report request. The
// Portal token travels with the request, so the source is built per request.
type IdentityProvider func(portalToken string) upstream.IdentitySource

// PortalIdentity resolves names through the Portal with the request's token.
// names, when non-nil, caches Portal answers across requests made with the
// same token. directory,
// when non-nil, is consulted first.
func PortalIdentity(portal *upstream.PortalClient, directory *upstream.DirectorySource, names *cache.Cache[string]) IdentityProvider {
	return func(portalToken string) upstream.IdentitySource {
		var src upstream.IdentitySource = portal.WithToken(portalToken)
		if names != nil {
			src = upstream.NewCachingIdentitySource(src, names, portalToken)
		}
		if directory != nil {
			src = directory.WithFallback(src)
		}
		return src
	}
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response helpers
//   - handlers_health.go: GET / and GET /health
//   - handlers_report.go: POST /
type Handler struct {
	config    *config.Config
	events    upstream.EventSource
	content   upstream.ContentSource
	identity  IdentityProvider
	breakers  []upstream.BreakerReporter
	buildOpts reportdata.BuildOptions
	now       func() time.Time
	startTime time.Time
}

// NewHandler creates the API handler.
//
// Example:
//
//	handler := api.NewHandler(cfg, logPuller, content, api.PortalIdentity(portal, nil, names))
//	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security)))
func NewHandler(cfg *config.Config, events upstream.EventSource, content upstream.ContentSource, identity IdentityProvider) *Handler {
	return &Handler{
		config:   cfg,
		events:   events,
		content:  content,
		identity: identity,
		buildOpts: reportdata.BuildOptions{
			PrefetchConcurrency: cfg.Build.PrefetchConcurrency,
		},
		now:       time.Now,
		startTime: time.Now(),
	}
}

// WatchBreakers adds upstream clients whose circuit state /health reports.
func (h *Handler) WatchBreakers(clients ...upstream.BreakerReporter) {
	h.breakers = append(h.breakers, clients...)
}
