// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/config"
	"github.com/tomtom215/tereport/internal/models"
	"github.com/tomtom215/tereport/internal/plugins"
	"github.com/tomtom215/tereport/internal/upstream"
)

const (
	teacherID  = "28@learn.concord.org"
	logJSON    = `{"type":"learners","version":"1","domain":"learn.concord.org","runnables":[]}`
	tipToggle  = "TeacherEdition-windowShade-TeacherTip TabOpened"
	teURL      = "https://authoring.concord.org/activities/100?mode=teacher-edition"
	previewURL = "https://authoring.concord.org/activities/100"
)

// fixedNow is 2019-05-28T17:41:09.19Z, i.e. 1559065269190 ms.
var fixedNow = time.UnixMilli(1559065269190)

// fakeEvents records the log request and returns a canned log.
type fakeEvents struct {
	mu     sync.Mutex
	events []models.RawEvent
	err    error
	got    []upstream.LogRequest
}

func (f *fakeEvents) FetchEvents(_ context.Context, req upstream.LogRequest) ([]models.RawEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, req)
	return f.events, f.err
}

func (f *fakeEvents) requests() []upstream.LogRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upstream.LogRequest(nil), f.got...)
}

// fakeContent serves exports keyed by "type:id".
type fakeContent map[string]string

func (f fakeContent) FetchModule(_ context.Context, moduleType, id string) (json.RawMessage, error) {
	export, ok := f[moduleType+":"+id]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", upstream.ErrNotFound, moduleType, id)
	}
	return json.RawMessage(export), nil
}

type fakeIdentity map[string]string

func (f fakeIdentity) TeacherName(_ context.Context, id string) (string, error) {
	if name, ok := f[id]; ok {
		return name, nil
	}
	return "", upstream.ErrNotFound
}

type fakeBreaker struct{ service, state string }

func (b fakeBreaker) Service() string      { return b.service }
func (b fakeBreaker) BreakerState() string { return b.state }

// seasonsContent is one Teacher Edition activity with a teacher tip.
func seasonsContent() fakeContent {
	authorData, _ := json.Marshal(`{"tipType":"windowShade","windowShade":{"windowShadeType":"teacherTip"}}`)
	plugin := fmt.Sprintf(`{"embeddable":{"ref_id":"1-Embeddable::EmbeddablePlugin","type":"Embeddable::EmbeddablePlugin","plugin":{"approved_script_label":%q,"author_data":%s}}}`,
		plugins.ScriptLabel, authorData)
	return fakeContent{
		"activity:100": fmt.Sprintf(`{"name":"Seasons","pages":[{"embeddables":[%s]}]}`, plugin),
	}
}

func rawEvent(id, session, event, ts, pageURL, pluginID string) models.RawEvent {
	extras := models.Extras{"url": pageURL, "activity_id": "100"}
	if pluginID != "" {
		extras["embeddable_plugin_id"] = pluginID
	}
	return models.RawEvent{
		ID:       models.FlexString(id),
		Session:  session,
		Username: teacherID,
		Activity: "activity: 100",
		Event:    event,
		Time:     ts,
		Extras:   extras,
	}
}

// seasonsLog opens the tip in Teacher Edition, then previews the activity.
func seasonsLog() []models.RawEvent {
	return []models.RawEvent{
		rawEvent("1", "s1", tipToggle, "2019-05-28T17:00:00Z", teURL, "1"),
		rawEvent("2", "s1", "submit", "2019-05-28T17:05:00Z", teURL, ""),
		rawEvent("3", "s2", "submit", "2019-05-28T18:00:00Z", previewURL, ""),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Name:         "Teacher Edition Report Server",
			MaxBodyBytes: 1 << 20,
		},
		Build: config.BuildConfig{PrefetchConcurrency: 2},
		Security: config.SecurityConfig{
			CORSOrigins:     []string{"https://portal-report.concord.org"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// testHandler wires h to the given log and records the Portal tokens it
// was asked for.
func testHandler(t *testing.T, events *fakeEvents) (*Handler, *[]string) {
	t.Helper()
	var (
		mu     sync.Mutex
		tokens []string
	)
	identity := func(token string) upstream.IdentitySource {
		mu.Lock()
		defer mu.Unlock()
		tokens = append(tokens, token)
		return fakeIdentity{teacherID: "Ada Lovelace"}
	}
	h := NewHandler(testConfig(), events, seasonsContent(), identity)
	h.now = func() time.Time { return fixedNow }
	return h, &tokens
}

func formValues(jsonField, signature, token string) url.Values {
	form := url.Values{}
	if jsonField != "" {
		form.Set("json", jsonField)
	}
	if signature != "" {
		form.Set("signature", signature)
	}
	if token != "" {
		form.Set("portal_token", token)
	}
	return form
}

var errLogPuller = errors.New("log puller returned 503")
