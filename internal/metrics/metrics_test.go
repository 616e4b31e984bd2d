// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBuild(t *testing.T) {
	success := testutil.ToFloat64(ReportBuildsTotal.WithLabelValues("success"))
	failure := testutil.ToFloat64(ReportBuildsTotal.WithLabelValues("error"))

	RecordBuild(20*time.Millisecond, nil)
	RecordBuild(5*time.Millisecond, errors.New("bad timestamp"))

	if got := testutil.ToFloat64(ReportBuildsTotal.WithLabelValues("success")) - success; got != 1 {
		t.Errorf("success builds delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ReportBuildsTotal.WithLabelValues("error")) - failure; got != 1 {
		t.Errorf("error builds delta = %v, want 1", got)
	}
}

func TestRecordEventOutcome(t *testing.T) {
	before := testutil.ToFloat64(ReportEventsTotal.WithLabelValues("no_mode"))

	RecordEventOutcome("no_mode", 3)
	RecordEventOutcome("no_mode", 0)
	RecordEventOutcome("no_mode", -2)

	if got := testutil.ToFloat64(ReportEventsTotal.WithLabelValues("no_mode")) - before; got != 3 {
		t.Errorf("no_mode delta = %v, want 3", got)
	}
}

func TestRecordUpstreamRequest(t *testing.T) {
	tests := []struct {
		name   string
		status int
		label  string
	}{
		{"ok", 200, "200"},
		{"not found", 404, "404"},
		{"transport failure", 0, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("authoring", tt.label))
			RecordUpstreamRequest("authoring", tt.status, 10*time.Millisecond)
			after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("authoring", tt.label))
			if after-before != 1 {
				t.Errorf("status %q delta = %v, want 1", tt.label, after-before)
			}
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CrossBuildCacheLookups.WithLabelValues("content", "hit"))
	misses := testutil.ToFloat64(CrossBuildCacheLookups.WithLabelValues("content", "miss"))

	RecordCacheLookup("content", true)
	RecordCacheLookup("content", false)
	RecordCacheLookup("content", false)

	if got := testutil.ToFloat64(CrossBuildCacheLookups.WithLabelValues("content", "hit")) - hits; got != 1 {
		t.Errorf("hit delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CrossBuildCacheLookups.WithLabelValues("content", "miss")) - misses; got != 2 {
		t.Errorf("miss delta = %v, want 2", got)
	}
}

func TestRecordReport(t *testing.T) {
	before := testutil.ToFloat64(ReportsGeneratedTotal.WithLabelValues("usageReport"))
	RecordReport("usageReport", 12)
	if got := testutil.ToFloat64(ReportsGeneratedTotal.WithLabelValues("usageReport")) - before; got != 1 {
		t.Errorf("reports delta = %v, want 1", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	before := testutil.ToFloat64(ResolverLookups.WithLabelValues("module", "hit"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordResolverLookup("module", "hit")
			RecordPluginSkipped("unknown_tip_type")
			RecordAPIRequest("POST", "/", "200", time.Millisecond)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(ResolverLookups.WithLabelValues("module", "hit")) - before; got != 50 {
		t.Errorf("module hit delta = %v, want 50", got)
	}
}

func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/", "200", time.Millisecond)
	CircuitBreakerState.WithLabelValues("authoring").Set(0)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}
