// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reportdata

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/models"
	"github.com/tomtom215/tereport/internal/plugins"
	"github.com/tomtom215/tereport/internal/upstream"
)

// fakeContent serves exports keyed by "type:id" and counts fetches.
type fakeContent struct {
	mu      sync.Mutex
	exports map[string]string
	errs    map[string]error
	calls   map[string]int
	delay   time.Duration
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		exports: map[string]string{},
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeContent) with(moduleType, id, export string) *fakeContent {
	f.exports[moduleType+":"+id] = export
	return f
}

func (f *fakeContent) failing(moduleType, id string, err error) *fakeContent {
	f.errs[moduleType+":"+id] = err
	return f
}

func (f *fakeContent) FetchModule(ctx context.Context, moduleType, id string) (json.RawMessage, error) {
	key := moduleType + ":" + id
	f.mu.Lock()
	f.calls[key]++
	export, ok := f.exports[key]
	err := f.errs[key]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", upstream.ErrNotFound, key)
	}
	return json.RawMessage(export), nil
}

func (f *fakeContent) callsFor(moduleType, id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[moduleType+":"+id]
}

// fakeIdentity serves names and counts lookups.
type fakeIdentity struct {
	mu    sync.Mutex
	names map[string]string
	calls map[string]int
}

func newFakeIdentity(names map[string]string) *fakeIdentity {
	return &fakeIdentity{names: names, calls: map[string]int{}}
}

func (f *fakeIdentity) TeacherName(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if name, ok := f.names[id]; ok {
		return name, nil
	}
	return "", upstream.ErrNotFound
}

func (f *fakeIdentity) callsFor(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

// tePlugin renders an embeddable carrying a Teacher Edition plugin.
func tePlugin(refID, authorData string) string {
	encoded, _ := json.Marshal(authorData)
	return fmt.Sprintf(`{"embeddable":{"ref_id":%q,"type":"Embeddable::EmbeddablePlugin","plugin":{"approved_script_label":%q,"author_data":%s}}}`,
		refID, plugins.ScriptLabel, encoded)
}

func windowShade(refID, kind string) string {
	return tePlugin(refID, fmt.Sprintf(`{"tipType":"windowShade","windowShade":{"windowShadeType":%q}}`, kind))
}

func sideTip(refID string) string {
	return tePlugin(refID, `{"tipType":"sideTip","sideTip":{"content":"psst"}}`)
}

// activityExport renders an activity export with one page of embeddables.
func activityExport(name string, embeddables ...string) string {
	return fmt.Sprintf(`{"name":%q,"pages":[{"embeddables":[%s]}]}`, name, strings.Join(embeddables, ","))
}

// sequenceExport renders a sequence export over activity exports.
func sequenceExport(title string, activities ...string) string {
	return fmt.Sprintf(`{"display_title":%q,"title":"ignored","activities":[%s]}`, title, strings.Join(activities, ","))
}

const (
	teURL      = "https://authoring.concord.org/activities/100?mode=teacher-edition"
	previewURL = "https://authoring.concord.org/activities/100"
)

// rawEvent builds a raw event. Empty extras are omitted.
func rawEvent(id, session, user, activity, event, ts, url, activityID, pluginID string) models.RawEvent {
	extras := models.Extras{}
	if url != "" {
		extras["url"] = url
	}
	if activityID != "" {
		extras["activity_id"] = activityID
	}
	if pluginID != "" {
		extras["embeddable_plugin_id"] = pluginID
	}
	return models.RawEvent{
		ID:       models.FlexString(id),
		Session:  session,
		Username: user,
		Activity: activity,
		Event:    event,
		Time:     ts,
		Extras:   extras,
	}
}
