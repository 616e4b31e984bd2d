// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package services

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/tereport/internal/cache"
	"github.com/tomtom215/tereport/internal/logging"
)

// ManagedCache is the part of cache.Cache the service needs. Every
// cache.Cache[V] satisfies it.
type ManagedCache interface {
	GetStats() cache.Stats
	HitRate() float64
	Close()
}

// CacheService owns the cross-build caches: it logs their statistics every
// interval and stops their sweepers when the tree shuts down.
type CacheService struct {
	caches   map[string]ManagedCache
	interval time.Duration
	name     string
}

// NewCacheService creates a service over caches keyed by name, e.g.
// "content" and "identity". A non-positive interval means one minute.
func NewCacheService(interval time.Duration, caches map[string]ManagedCache) *CacheService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheService{
		caches:   caches,
		interval: interval,
		name:     "cache-service",
	}
}

// Serve implements suture.Service.
func (s *CacheService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.logStats()
		case <-ctx.Done():
			s.logStats()
			for _, c := range s.caches {
				c.Close()
			}
			return ctx.Err()
		}
	}
}

func (s *CacheService) logStats() {
	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := s.caches[name]
		stats := c.GetStats()
		logging.Debug().
			Str("cache", name).
			Int64("keys", stats.TotalKeys).
			Int64("hits", stats.Hits).
			Int64("misses", stats.Misses).
			Int64("evictions", stats.Evictions).
			Float64("hit_rate", c.HitRate()).
			Msg("Cache statistics")
	}
}

// String implements fmt.Stringer.
func (s *CacheService) String() string {
	return s.name
}
