// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

/*
Package upstream talks to the services a Teacher Edition report depends on.

Three narrow interfaces are consumed by the report-data builder:

  - EventSource: raw interaction events (log-puller, or a JSON file)
  - ContentSource: authored module exports (LARA, or a directory of files)
  - IdentitySource: teacher display names (Portal, or a YAML directory)

# HTTP Clients

LogPullerClient, AuthoringClient, and PortalClient share one request path:

  - Optional client-side pacing with golang.org/x/time/rate
  - Exponential backoff on HTTP 429 (1s, 2s, 4s, 8s, 16s), honoring Retry-After
  - A sony/gobreaker circuit breaker per service
  - Error bodies capped at 64KB
  - Request count and latency metrics per service

Logical misses (404, empty export, blank name) are reported as ErrNotFound
or ErrEmptyContent. They do not count against the circuit breaker.

# Caching

CachingContentSource and CachingIdentitySource keep successful lookups in a
TTL cache shared across builds. Failures are never cached.

# Offline Sources

FileEventSource, DirContentSource, and DirectorySource read local files and
back the command-line generator and tests.
*/
package upstream
