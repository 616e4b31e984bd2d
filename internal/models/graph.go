// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package models

import "time"

// NameNotAvailable is substituted when a teacher's display name cannot be resolved.
const NameNotAvailable = "Name not available"

// Event is one sanitized occurrence from the raw log.
//
// Module is nil when the module could not be resolved, and ActivityID is
// empty when the record carried no activity id. Plugin is nil unless the
// event names an embeddable plugin found in a Teacher Edition module.
type Event struct {
	Session    *Session
	Teacher    *Teacher
	Mode       TEMode
	Time       time.Time
	Type       string
	SubType    EventSubType
	Module     *Module
	ActivityID string
	Plugin     *Plugin
}

// Teacher is a deduplicated identity keyed by the raw username.
type Teacher struct {
	ID       string
	Name     string
	Events   []*Event
	Modules  []*Module
	Sessions []*Session
}

// Module is an activity or a sequence of activities.
type Module struct {
	ExternalID string // e.g. "sequence: 55"
	Type       string // e.g. "sequence", "activity"
	ID         string // e.g. "55"
	Name       string
	IsSequence bool
	IsTEModule bool
	Activities []*Activity
}

// Plugins returns every plugin of every activity, in content order.
func (m *Module) Plugins() []*Plugin {
	var plugins []*Plugin
	for _, a := range m.Activities {
		plugins = append(plugins, a.Plugins...)
	}
	return plugins
}

// FindPlugin locates a plugin by reference id. A bare numeric id matches a
// ref id of the form "<id>-<embeddable type>".
func (m *Module) FindPlugin(refID string) *Plugin {
	if refID == "" {
		return nil
	}
	for _, p := range m.Plugins() {
		if p.RefID == refID {
			return p
		}
	}
	prefix := refID + "-"
	for _, p := range m.Plugins() {
		if len(p.RefID) > len(prefix) && p.RefID[:len(prefix)] == prefix {
			return p
		}
	}
	return nil
}

// Activity is one unit of content inside a Module.
type Activity struct {
	Name    string
	Plugins []*Plugin
}

// Plugin is one Teacher Edition annotation embedded in an activity.
type Plugin struct {
	RefID string
	Def   PluginDef
}

// Type returns the plugin's discriminant.
func (p *Plugin) Type() PluginType {
	if p == nil || p.Def == nil {
		return 0
	}
	return p.Def.PluginType()
}

// PluginDef is the type-specific payload of a Plugin. The set of
// implementations is closed to this package.
type PluginDef interface {
	PluginType() PluginType
	isPluginDef()
}

// QuestionWrapper records which optional tabs of a question wrapper carry content.
type QuestionWrapper struct {
	CorrectExplanation     bool
	DistractorsExplanation bool
	Exemplar               bool
	TeacherTip             bool
}

func (QuestionWrapper) PluginType() PluginType { return PluginQuestionWrapper }
func (QuestionWrapper) isPluginDef()           {}

// HasSubType reports whether the wrapper shows the tab for a question-wrapper sub-type.
func (q QuestionWrapper) HasSubType(st EventSubType) bool {
	switch st {
	case SubTypeCorrectExplanation:
		return q.CorrectExplanation
	case SubTypeDistractorsExplanation:
		return q.DistractorsExplanation
	case SubTypeExemplar:
		return q.Exemplar
	case SubTypeTeacherTip:
		return q.TeacherTip
	default:
		return false
	}
}

// WindowShade is a collapsible panel of a fixed kind.
type WindowShade struct {
	Kind WindowShadeType
}

func (WindowShade) PluginType() PluginType { return PluginWindowShade }
func (WindowShade) isPluginDef()           {}

// SideTip has no sub-classification.
type SideTip struct{}

func (SideTip) PluginType() PluginType { return PluginSideTip }
func (SideTip) isPluginDef()           {}

// Session groups events sharing one session token. Everything but Token is
// derived after the build's reduction pass.
type Session struct {
	Token     string
	Events    []*Event
	Modules   []*Module
	Teachers  []*Teacher
	FirstDate time.Time
	LastDate  time.Time
}

// BuildStats summarizes what the reduction pass kept and dropped.
type BuildStats struct {
	RawEvents         int      `json:"raw_events"`
	RetainedEvents    int      `json:"retained_events"`
	ResolvedModules   int      `json:"resolved_modules"`
	TEModules         int      `json:"te_modules"`
	UnresolvedModules []string `json:"unresolved_modules,omitempty"`
	DroppedNoModule   int      `json:"dropped_no_module"`
	DroppedNonTE      int      `json:"dropped_non_te"`
	DroppedNoMode     int      `json:"dropped_no_mode"`
	DroppedNoActivity int      `json:"dropped_no_activity"`
	RetainedTeachers  int      `json:"retained_teachers"`
	RetainedSessions  int      `json:"retained_sessions"`
}

// ReportData is the root of a fully cross-referenced report graph.
type ReportData struct {
	Events   []*Event
	Teachers []*Teacher
	Modules  []*Module
	Sessions []*Session
	BuiltAt  time.Time
	Stats    BuildStats
}
