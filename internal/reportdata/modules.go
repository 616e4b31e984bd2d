// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reportdata

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/metrics"
	"github.com/tomtom215/tereport/internal/models"
	"github.com/tomtom215/tereport/internal/plugins"
	"github.com/tomtom215/tereport/internal/upstream"
)

var (
	externalIDPattern = regexp.MustCompile(`^(.+): (.+)$`)
	sequencePattern   = regexp.MustCompile(`^sequence`)
	teModulePattern   = regexp.MustCompile(`"approved_script_label":\s*"teacherEditionTips"`)
)

// ParseExternalID splits "sequence: 55" into its type and id.
func ParseExternalID(externalID string) (moduleType, id string, err error) {
	m := externalIDPattern.FindStringSubmatch(externalID)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedModuleID, externalID)
	}
	return m[1], m[2], nil
}

// moduleEntry is a memoized resolution. Exactly one of module and err is set.
type moduleEntry struct {
	module *models.Module
	err    error
}

// ModuleCache memoizes module resolutions for one build. Concurrent lookups
// of the same id share a single fetch.
type ModuleCache struct {
	mu      sync.Mutex
	entries map[string]*moduleEntry
	group   singleflight.Group
}

// NewModuleCache creates an empty cache.
func NewModuleCache() *ModuleCache {
	return &ModuleCache{entries: make(map[string]*moduleEntry)}
}

func (c *ModuleCache) get(id string) (*moduleEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	return e, ok
}

func (c *ModuleCache) put(id string, e *moduleEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = e
}

// Len returns the number of memoized ids, resolved or not.
func (c *ModuleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ModuleResolver turns external module ids into normalized modules.
type ModuleResolver struct {
	source upstream.ContentSource
	cache  *ModuleCache
	logger zerolog.Logger
}

// NewModuleResolver creates a resolver backed by source. A nil cache gets a
// fresh one.
func NewModuleResolver(source upstream.ContentSource, cache *ModuleCache) *ModuleResolver {
	if cache == nil {
		cache = NewModuleCache()
	}
	return &ModuleResolver{
		source: source,
		cache:  cache,
		logger: logging.WithComponent("module_resolver"),
	}
}

// Resolve returns the module for externalID, fetching it at most once.
//
// Errors wrapping ErrModuleUnavailable mean the module could not be fetched
// and should be treated as unresolved. ErrMalformedModuleID and
// ErrInvalidContentExport are fatal to the build.
func (r *ModuleResolver) Resolve(ctx context.Context, externalID string) (*models.Module, error) {
	if e, ok := r.cache.get(externalID); ok {
		metrics.RecordResolverLookup("module", "hit")
		return e.module, e.err
	}

	v, _, _ := r.cache.group.Do(externalID, func() (interface{}, error) {
		if e, ok := r.cache.get(externalID); ok {
			return e, nil
		}
		e := r.load(ctx, externalID)
		r.cache.put(externalID, e)
		return e, nil
	})
	e := v.(*moduleEntry)
	return e.module, e.err
}

func (r *ModuleResolver) load(ctx context.Context, externalID string) *moduleEntry {
	moduleType, id, err := ParseExternalID(externalID)
	if err != nil {
		return &moduleEntry{err: err}
	}

	if r.source == nil {
		metrics.RecordResolverLookup("module", "unresolved")
		return &moduleEntry{err: fmt.Errorf("%w: %s: no content source", ErrModuleUnavailable, externalID)}
	}

	raw, err := r.source.FetchModule(ctx, moduleType, id)
	if err != nil {
		metrics.RecordResolverLookup("module", "unresolved")
		r.logger.Warn().Err(err).Str("module", externalID).Msg("Module export unavailable; treating as unresolved")
		return &moduleEntry{err: fmt.Errorf("%w: %s: %w", ErrModuleUnavailable, externalID, err)}
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		metrics.RecordResolverLookup("module", "unresolved")
		r.logger.Warn().Str("module", externalID).Msg("Module export is empty; treating as unresolved")
		return &moduleEntry{err: fmt.Errorf("%w: %s: empty export", ErrModuleUnavailable, externalID)}
	}

	module, err := r.normalize(externalID, moduleType, id, raw)
	if err != nil {
		return &moduleEntry{err: err}
	}
	metrics.RecordResolverLookup("module", "fetch")
	return &moduleEntry{module: module}
}

func (r *ModuleResolver) normalize(externalID, moduleType, id string, raw json.RawMessage) (*models.Module, error) {
	if raw[0] != '{' {
		return nil, fmt.Errorf("%w: %s: export is not a JSON object", ErrInvalidContentExport, externalID)
	}
	var export models.ContentExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidContentExport, externalID, err)
	}

	module := &models.Module{
		ExternalID: externalID,
		Type:       moduleType,
		ID:         id,
		IsSequence: sequencePattern.MatchString(moduleType),
		IsTEModule: teModulePattern.Match(raw),
	}

	if module.IsSequence {
		module.Name = firstNonBlank(export.DisplayTitle, export.Title, externalID)
		for _, activityRaw := range export.Activities {
			var meta models.ActivityExport
			_ = json.Unmarshal(activityRaw, &meta)
			module.Activities = append(module.Activities, r.activity(externalID, meta.Name, activityRaw))
		}
	} else {
		module.Name = firstNonBlank(export.Name, export.Title, externalID)
		activityRaw := json.RawMessage(raw)
		if nested := bytes.TrimSpace(export.Activity); len(nested) > 0 && nested[0] == '{' {
			activityRaw = nested
		}
		module.Activities = append(module.Activities, r.activity(externalID, module.Name, activityRaw))
	}

	r.logger.Debug().
		Str("module", externalID).
		Bool("te_module", module.IsTEModule).
		Int("activities", len(module.Activities)).
		Int("plugins", len(module.Plugins())).
		Msg("Resolved module")
	return module, nil
}

// activity builds one Activity. An activity whose annotations cannot be
// parsed is kept with no plugins.
func (r *ModuleResolver) activity(externalID, name string, raw json.RawMessage) *models.Activity {
	a := &models.Activity{Name: name}
	found, err := plugins.Extract(raw)
	if err != nil {
		r.logger.Error().Err(err).
			Str("module", externalID).
			Str("activity", name).
			Msg("Failed to parse Teacher Edition annotations; activity has no plugins")
		return a
	}
	a.Plugins = found
	return a
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
