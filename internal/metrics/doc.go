// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

/*
Package metrics provides Prometheus metrics for the report server.

All collectors are registered with the default registry through promauto and
are exposed by the API router at /metrics:

	curl http://localhost:3000/metrics

# Available Metrics

Build Metrics:
  - tereport_builds_total{result}: report-data builds
  - tereport_build_duration_seconds: build latency
  - tereport_events_total{outcome}: raw events by retention outcome
  - tereport_reports_generated_total{report}, tereport_report_rows{report}
  - tereport_plugins_skipped_total{reason}: annotations dropped by the classifier

Resolver and Cache Metrics:
  - tereport_resolver_lookups_total{resolver,result}
  - tereport_upstream_cache_lookups_total{source,result}

Upstream Metrics:
  - tereport_upstream_requests_total{service,status}
  - tereport_upstream_request_duration_seconds{service}
  - tereport_upstream_rate_limited_total{service}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result},
    circuit_breaker_consecutive_failures{name}, circuit_breaker_transitions_total{name,from,to}

HTTP Metrics:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
*/
package metrics
