// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the report pipeline:
// - Report builds and their event funnel
// - Upstream fetches (log-puller, authoring, portal)
// - Module and teacher resolution caches
// - Circuit breakers guarding upstream services
// - HTTP front door latency and throughput

var (
	// Report Build Metrics
	ReportBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tereport_builds_total",
			Help: "Total number of report-data builds by result",
		},
		[]string{"result"}, // "success", "error"
	)

	ReportBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tereport_build_duration_seconds",
			Help:    "Duration of report-data builds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	ReportEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tereport_events_total",
			Help: "Raw events seen by the builder, by outcome",
		},
		[]string{"outcome"}, // "retained", "no_module", "non_te", "no_mode", "no_activity"
	)

	ReportsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tereport_reports_generated_total",
			Help: "Reports generated by type",
		},
		[]string{"report"},
	)

	ReportRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tereport_report_rows",
			Help:    "Number of data rows per generated report",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"report"},
	)

	PluginsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tereport_plugins_skipped_total",
			Help: "Teacher Edition annotations skipped during classification, by reason",
		},
		[]string{"reason"},
	)

	// Resolver Metrics
	ResolverLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tereport_resolver_lookups_total",
			Help: "Module and teacher resolver lookups by resolver and result",
		},
		[]string{"resolver", "result"}, // resolver: "module", "teacher"; result: "hit", "fetch", "unresolved"
	)

	CrossBuildCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tereport_upstream_cache_lookups_total",
			Help: "Cross-build upstream cache lookups",
		},
		[]string{"source", "result"}, // result: "hit", "miss"
	)

	// Upstream Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tereport_upstream_requests_total",
			Help: "Requests to upstream services by service and status",
		},
		[]string{"service", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tereport_upstream_request_duration_seconds",
			Help:    "Upstream request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	UpstreamRateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tereport_upstream_rate_limited_total",
			Help: "HTTP 429 responses received from upstream services",
		},
		[]string{"service"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failures count",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)
)

// RecordBuild records a finished report-data build.
func RecordBuild(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ReportBuildsTotal.WithLabelValues(result).Inc()
	ReportBuildDuration.Observe(duration.Seconds())
}

// RecordEventOutcome adds n events to the given funnel outcome.
func RecordEventOutcome(outcome string, n int) {
	if n <= 0 {
		return
	}
	ReportEventsTotal.WithLabelValues(outcome).Add(float64(n))
}

// RecordReport records a generated report and its row count.
func RecordReport(report string, rows int) {
	ReportsGeneratedTotal.WithLabelValues(report).Inc()
	ReportRows.WithLabelValues(report).Observe(float64(rows))
}

// RecordPluginSkipped counts an annotation dropped during classification.
func RecordPluginSkipped(reason string) {
	PluginsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordResolverLookup counts a resolver lookup.
func RecordResolverLookup(resolver, result string) {
	ResolverLookups.WithLabelValues(resolver, result).Inc()
}

// RecordCacheLookup counts a cross-build cache lookup.
func RecordCacheLookup(source string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CrossBuildCacheLookups.WithLabelValues(source, result).Inc()
}

// RecordUpstreamRequest records one upstream HTTP exchange. status is 0 for
// transport failures.
func RecordUpstreamRequest(service string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(service, label).Inc()
	UpstreamRequestDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
