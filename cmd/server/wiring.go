// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package main

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/api"
	"github.com/tomtom215/tereport/internal/cache"
	"github.com/tomtom215/tereport/internal/config"
	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/supervisor/services"
	"github.com/tomtom215/tereport/internal/upstream"
)

// serverWiring is everything main hands to the router and the supervisor.
type serverWiring struct {
	handler *api.Handler
	caches  map[string]services.ManagedCache
}

// buildServer creates the upstream clients and the API handler.
//
// Sources, outermost first:
//
//	events:   log puller
//	content:  cross-build cache (if enabled) -> LARA
//	identity: directory (if configured) -> cross-build cache (if enabled) -> Portal
func buildServer(cfg *config.Config) (*serverWiring, error) {
	logPuller := upstream.NewLogPullerClient(cfg.LogPuller)
	authoring := upstream.NewAuthoringClient(cfg.Authoring)
	portal := upstream.NewPortalClient(cfg.Portal)

	wiring := &serverWiring{caches: map[string]services.ManagedCache{}}

	var content upstream.ContentSource = authoring
	var names *cache.Cache[string]
	if cfg.Cache.Enabled {
		exports := cache.New[json.RawMessage](cfg.Cache.TTL)
		names = cache.New[string](cfg.Cache.TTL)
		content = upstream.NewCachingContentSource(authoring, exports)
		wiring.caches["content"] = exports
		wiring.caches["identity"] = names
	}

	var directory *upstream.DirectorySource
	if path := cfg.Identity.DirectoryFile; path != "" {
		var err error
		directory, err = upstream.LoadDirectory(path)
		if err != nil {
			return nil, fmt.Errorf("teacher directory: %w", err)
		}
		logging.Info().Str("file", path).Int("teachers", directory.Len()).Msg("Teacher directory loaded")
	}

	wiring.handler = api.NewHandler(cfg, logPuller, content, api.PortalIdentity(portal, directory, names))
	wiring.handler.WatchBreakers(logPuller, authoring, portal)
	return wiring, nil
}
