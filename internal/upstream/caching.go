// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package upstream

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/cache"
	"github.com/tomtom215/tereport/internal/metrics"
)

// CachingContentSource keeps successful exports in a cache shared across
// builds. Errors pass through uncached so a later build can retry.
type CachingContentSource struct {
	next  ContentSource
	cache *cache.Cache[json.RawMessage]
}

// NewCachingContentSource wraps next with c.
func NewCachingContentSource(next ContentSource, c *cache.Cache[json.RawMessage]) *CachingContentSource {
	return &CachingContentSource{next: next, cache: c}
}

// FetchModule implements ContentSource.
func (s *CachingContentSource) FetchModule(ctx context.Context, moduleType, id string) (json.RawMessage, error) {
	key := cache.GenerateKey("module", []string{moduleType, id})
	if raw, ok := s.cache.Get(key); ok {
		metrics.RecordCacheLookup("content", true)
		return raw, nil
	}
	metrics.RecordCacheLookup("content", false)

	raw, err := s.next.FetchModule(ctx, moduleType, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, raw)
	return raw, nil
}

// CachingIdentitySource keeps resolved teacher names in a shared cache.
// Entries are partitioned by scope, so names resolved under one Portal token
// are never served to a request carrying another.
type CachingIdentitySource struct {
	next  IdentitySource
	cache *cache.Cache[string]
	scope string
}

// NewCachingIdentitySource wraps next with c. The server builds one per
// request around a token-bound Portal client, passing the token as scope.
// Keys are hashed, so the token itself is never stored.
func NewCachingIdentitySource(next IdentitySource, c *cache.Cache[string], scope string) *CachingIdentitySource {
	return &CachingIdentitySource{next: next, cache: c, scope: scope}
}

// identityKey is the cache key for id under scope.
func identityKey(scope, id string) string {
	return cache.GenerateKey("teacher", []string{scope, id})
}

// TeacherName implements IdentitySource.
func (s *CachingIdentitySource) TeacherName(ctx context.Context, id string) (string, error) {
	key := identityKey(s.scope, id)
	if name, ok := s.cache.Get(key); ok {
		metrics.RecordCacheLookup("identity", true)
		return name, nil
	}
	metrics.RecordCacheLookup("identity", false)

	name, err := s.next.TeacherName(ctx, id)
	if err != nil {
		return "", err
	}
	if name != "" {
		s.cache.Set(key, name)
	}
	return name, nil
}
