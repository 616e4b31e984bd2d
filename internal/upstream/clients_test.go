// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/tereport/internal/config"
)

func TestAuthoringClient_ExportURL(t *testing.T) {
	t.Parallel()

	c := NewAuthoringClient(config.AuthoringConfig{Server: "authoring.concord.org/", Timeout: time.Second})

	tests := []struct {
		moduleType string
		id         string
		want       string
	}{
		{"sequence", "55", "https://authoring.concord.org/sequences/55/export.json"},
		{"sequences", "7", "https://authoring.concord.org/sequences/7/export.json"},
		{"activity", "100", "https://authoring.concord.org/activities/100/export.json"},
		{"lightweight-activity", "3", "https://authoring.concord.org/activities/3/export.json"},
	}
	for _, tt := range tests {
		if got := c.ExportURL(tt.moduleType, tt.id); got != tt.want {
			t.Errorf("ExportURL(%q, %q) = %q, want %q", tt.moduleType, tt.id, got, tt.want)
		}
	}
}

func TestAuthoringClient_FetchModule(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		gotPath.Store(r.URL.Path)
		if r.URL.Path == "/activities/404/export.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Seasons"}`))
	}))
	defer server.Close()

	c := NewAuthoringClient(config.AuthoringConfig{Server: server.URL, APIKey: "secret", Timeout: 5 * time.Second})

	raw, err := c.FetchModule(context.Background(), "sequence", "55")
	if err != nil {
		t.Fatalf("FetchModule() error = %v", err)
	}
	if string(raw) != `{"name":"Seasons"}` {
		t.Errorf("FetchModule() = %s", raw)
	}
	if got := gotAuth.Load(); got != "Bearer secret" {
		t.Errorf("Authorization = %v, want Bearer secret", got)
	}
	if got := gotPath.Load(); got != "/sequences/55/export.json" {
		t.Errorf("path = %v, want /sequences/55/export.json", got)
	}

	if _, err := c.FetchModule(context.Background(), "activity", "404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchModule(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAuthoringClient_NoAPIKey(t *testing.T) {
	t.Parallel()

	var sawAuth atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth.Store(r.Header.Get("Authorization") != "")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewAuthoringClient(config.AuthoringConfig{Server: server.URL, Timeout: 5 * time.Second})
	if _, err := c.FetchModule(context.Background(), "activity", "1"); err != nil {
		t.Fatalf("FetchModule() error = %v", err)
	}
	if sawAuth.Load() {
		t.Error("Authorization header sent without an API key")
	}
}

func TestPortalUserID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"28@learn.staging.concord.org", "28", true},
		{"4792@learn.concord.org", "4792", true},
		{"17", "17", true},
		{"anonymous", "", false},
		{"28abc@learn", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := PortalUserID(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("PortalUserID(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPortalClient_TeacherName(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	var gotAuth, gotPath atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotAuth.Store(r.Header.Get("Authorization"))
		gotPath.Store(r.URL.Path)
		switch r.URL.Path {
		case "/api/v1/users/28":
			_, _ = w.Write([]byte(`{"id":28,"first_name":"Michigan J.","last_name":"Frog"}`))
		case "/api/v1/users/29":
			_, _ = w.Write([]byte(`{"id":29,"first_name":"","last_name":" "}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	base := NewPortalClient(config.PortalConfig{Server: server.URL, Timeout: 5 * time.Second})
	c := base.WithToken("portal-token")

	if c.http != base.http {
		t.Error("WithToken() should share the HTTP client and breaker")
	}
	if base.token != "" {
		t.Error("WithToken() should not modify the receiver")
	}

	name, err := c.TeacherName(context.Background(), "28@learn.staging.concord.org")
	if err != nil {
		t.Fatalf("TeacherName() error = %v", err)
	}
	if name != "Michigan J. Frog" {
		t.Errorf("TeacherName() = %q, want Michigan J. Frog", name)
	}
	if got := gotAuth.Load(); got != "Bearer portal-token" {
		t.Errorf("Authorization = %v, want Bearer portal-token", got)
	}
	if got := gotPath.Load(); got != "/api/v1/users/28" {
		t.Errorf("path = %v, want /api/v1/users/28", got)
	}

	if _, err := c.TeacherName(context.Background(), "29@learn.staging.concord.org"); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("TeacherName(blank) error = %v, want ErrEmptyContent", err)
	}
	if _, err := c.TeacherName(context.Background(), "30@learn.staging.concord.org"); !errors.Is(err, ErrNotFound) {
		t.Errorf("TeacherName(missing) error = %v, want ErrNotFound", err)
	}

	before := hits.Load()
	if _, err := c.TeacherName(context.Background(), "anonymous"); !errors.Is(err, ErrNotFound) {
		t.Errorf("TeacherName(anonymous) error = %v, want ErrNotFound", err)
	}
	if hits.Load() != before {
		t.Error("TeacherName() should not call the Portal for ids without a numeric prefix")
	}
}

func TestLogPullerClient_URLFor(t *testing.T) {
	t.Parallel()

	c := NewLogPullerClient(config.LogPullerConfig{
		ProductionURL:     "https://prod.example/portal-report",
		StagingURL:        "https://staging.example/portal-report",
		ProductionDomains: []string{"learn.concord.org", "learn-report.concord.org"},
		Timeout:           time.Second,
	})

	tests := []struct {
		domain string
		want   string
	}{
		{"learn.concord.org", "https://prod.example/portal-report"},
		{"LEARN-REPORT.concord.org", "https://prod.example/portal-report"},
		{"learn.staging.concord.org", "https://staging.example/portal-report"},
		{"", "https://staging.example/portal-report"},
	}
	for _, tt := range tests {
		if got := c.URLFor(tt.domain); got != tt.want {
			t.Errorf("URLFor(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}

func TestLogPullerClient_FetchEvents(t *testing.T) {
	t.Parallel()

	const requestJSON = `{"type":"users","version":"1.0","domain":"learn.staging.concord.org","users":[{"id":28}],"runnables":[]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/staging" {
			t.Errorf("path = %s, want /staging", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		want := map[string]string{
			"json":      requestJSON,
			"signature": "sig",
			"format":    "json",
			"explode":   "no",
			"download":  "Download Logs",
		}
		for field, value := range want {
			if got := r.PostForm.Get(field); got != value {
				t.Errorf("form %s = %q, want %q", field, got, value)
			}
		}
		_, _ = w.Write([]byte(`[
			{"id": 1, "session": "s1", "username": "28@learn.staging.concord.org", "activity": "activity: 100",
			 "event": "TeacherEdition-sideTip-TeacherTip TabOpened", "time": "2019-05-28T17:41:09.190Z",
			 "extras": {"url": "https://authoring/activities/100?mode=teacher-edition"}, "event_value": null}
		]`))
	}))
	defer server.Close()

	c := NewLogPullerClient(config.LogPullerConfig{
		ProductionURL:     server.URL + "/production",
		StagingURL:        server.URL + "/staging",
		ProductionDomains: []string{"learn.concord.org"},
		Timeout:           5 * time.Second,
	})

	req, err := NewLogRequest(requestJSON, "sig")
	if err != nil {
		t.Fatalf("NewLogRequest() error = %v", err)
	}
	if req.Query.Domain != "learn.staging.concord.org" || len(req.Query.Users) != 1 {
		t.Errorf("Query = %+v", req.Query)
	}

	events, err := c.FetchEvents(context.Background(), req)
	if err != nil {
		t.Fatalf("FetchEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Session != "s1" || events[0].Extras.URL() == "" {
		t.Errorf("events[0] = %+v", events[0])
	}
}

func TestLogPullerClient_BadResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	c := NewLogPullerClient(config.LogPullerConfig{StagingURL: server.URL, Timeout: 5 * time.Second})
	if _, err := c.FetchEvents(context.Background(), LogRequest{JSON: "{}"}); err == nil {
		t.Error("FetchEvents() error = nil, want decode failure")
	}
}

func TestNewLogRequest_Invalid(t *testing.T) {
	t.Parallel()
	if _, err := NewLogRequest("not json", "sig"); err == nil {
		t.Error("NewLogRequest() error = nil, want decode failure")
	}
}
