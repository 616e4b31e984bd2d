// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

/*
Package cache provides a thread-safe in-memory cache with TTL expiry.

It backs the cross-build caches in internal/upstream: authoring exports and
teacher display names are kept for a configurable TTL so repeated report
requests over the same classes do not refetch them.

# Behavior

  - Generic over the value type (Cache[V])
  - Lazy expiry on Get plus a background sweep every five minutes
  - Hit, miss, and eviction counters via GetStats and HitRate
  - Close stops the sweep goroutine

# Example

	names := cache.New[string](time.Hour)
	defer names.Close()

	names.Set("28@learn.concord.org", "Ada Lovelace")
	if name, ok := names.Get("28@learn.concord.org"); ok {
	    fmt.Println(name)
	}
*/
package cache
