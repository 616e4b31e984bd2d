// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package models

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// RawEvent is one record of the log-puller's JSON export.
//
// Example:
//
//	{
//	  "id": 789374,
//	  "session": "e894bfb004f0f3bb4aa58c59ddfc9247",
//	  "username": "28@learn.staging.concord.org",
//	  "application": "LARA-log-poc",
//	  "activity": "activity: 100",
//	  "event": "TeacherEdition-windowShade-TeacherTip TabOpened",
//	  "time": "2019-05-28T17:41:09.190Z",
//	  "extras": {"url": "https://authoring/activities/100?mode=teacher-edition", "activity_id": 100},
//	  "event_value": "teacherTip"
//	}
type RawEvent struct {
	ID                FlexString      `json:"id"`
	Session           string          `json:"session"`
	Username          string          `json:"username"`
	Application       string          `json:"application,omitempty"`
	Activity          string          `json:"activity"`
	Event             string          `json:"event"`
	Time              string          `json:"time"`
	Parameters        json.RawMessage `json:"parameters,omitempty"`
	Extras            Extras          `json:"extras,omitempty"`
	EventValue        *string         `json:"event_value"`
	RunRemoteEndpoint *string         `json:"run_remote_endpoint"`
}

// Value returns the event_value, checking the top-level field before extras.
func (e *RawEvent) Value() string {
	if e.EventValue != nil && *e.EventValue != "" {
		return *e.EventValue
	}
	return e.Extras.EventValue()
}

// FlexString accepts a JSON string or number and keeps its textual form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

// Extras is the loosely-typed metadata bag attached to a raw event. Some
// producers store it as a JSON-encoded string; both shapes are accepted and
// anything else decodes to an empty bag.
type Extras map[string]interface{}

// UnmarshalJSON implements json.Unmarshaler.
func (x *Extras) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*x = nil
		return nil
	}
	switch data[0] {
	case '{':
		m := map[string]interface{}{}
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*x = m
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		m := map[string]interface{}{}
		if strings.HasPrefix(strings.TrimSpace(s), "{") && json.Unmarshal([]byte(s), &m) == nil {
			*x = m
		} else {
			*x = nil
		}
	default:
		*x = nil
	}
	return nil
}

// String returns the named value as text. Numbers are formatted without a
// trailing ".0"; missing, null, and non-scalar values yield "".
func (x Extras) String(key string) string {
	v, ok := x[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Has reports whether key is present, whatever its value.
func (x Extras) Has(key string) bool {
	_, ok := x[key]
	return ok
}

// URL returns extras.url.
func (x Extras) URL() string { return x.String("url") }

// ActivityID returns extras.activity_id.
func (x Extras) ActivityID() string { return x.String("activity_id") }

// EventValue returns extras.event_value.
func (x Extras) EventValue() string { return x.String("event_value") }

// EmbeddablePluginID returns extras.embeddable_plugin_id.
func (x Extras) EmbeddablePluginID() string { return x.String("embeddable_plugin_id") }

// LogRequest is the portal-signed request JSON forwarded to the log-puller.
// Only Domain drives behavior; the remaining fields are kept for logging.
type LogRequest struct {
	Type      string           `json:"type"`
	Version   string           `json:"version"`
	Domain    string           `json:"domain"`
	Users     []LogRequestUser `json:"users"`
	Runnables []LogRunnable    `json:"runnables"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
}

// LogRequestUser is a user entry in a LogRequest.
type LogRequestUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LogRunnable is a runnable entry in a LogRequest.
type LogRunnable struct {
	ID         int    `json:"id"`
	URL        string `json:"url"`
	BrowseURL  string `json:"browse_url"`
	Name       string `json:"name"`
	SourceType string `json:"source_type"`
}

// ContentExport is the part of an authoring-service export the pipeline
// reads. Activity covers exports that nest a plain activity under an
// "activity" member instead of at the root.
type ContentExport struct {
	Name         string            `json:"name"`
	Title        string            `json:"title"`
	DisplayTitle string            `json:"display_title"`
	Activities   []json.RawMessage `json:"activities"`
	Activity     json.RawMessage   `json:"activity"`
}

// ActivityExport is the name of an activity inside an export.
type ActivityExport struct {
	Name string `json:"name"`
}
