// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

/*
Package middleware provides the HTTP middleware the report server wraps its
handlers in.

Every middleware has the http.HandlerFunc-to-http.HandlerFunc shape; the api
package adapts them to chi's func(http.Handler) http.Handler.

  - RequestID: assigns X-Request-ID (UUID v4 unless the caller supplied one)
    and seeds the logging context with request and correlation ids
  - PrometheusMetrics: records api_requests_total and request
    duration, labelled by chi route pattern, and tracks in-flight requests
  - Compression: gzips responses for clients that accept it; report CSVs
    compress well

Order matters: RequestID runs first so every later log line carries the id.
*/
package middleware
