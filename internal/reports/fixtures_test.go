// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reports

import (
	"time"

	"github.com/tomtom215/tereport/internal/models"
)

const (
	wsTipToggle = "TeacherEdition-windowShade-TeacherTip TabOpened"
	qwToggle    = "TeacherEdition-questionWrapper-TeacherTip TabOpened"
	stToggle    = "TeacherEdition-sideTip-TeacherTip TabClosed"
)

var t0 = time.Date(2019, 5, 28, 17, 0, 0, 0, time.UTC)

func at(offset time.Duration) time.Time { return t0.Add(offset) }

func module(name string, plugins ...*models.Plugin) *models.Module {
	return &models.Module{
		ExternalID: "activity: 100",
		Type:       "activity",
		ID:         "100",
		Name:       name,
		IsTEModule: true,
		Activities: []*models.Activity{{Name: name, Plugins: plugins}},
	}
}

func plugin(refID string, def models.PluginDef) *models.Plugin {
	return &models.Plugin{RefID: refID, Def: def}
}

// event describes one retained event. The graph helper links it.
func event(s *models.Session, t *models.Teacher, m *models.Module, mode models.TEMode, ts time.Time,
	label string, st models.EventSubType, activityID string, p *models.Plugin) *models.Event {
	return &models.Event{
		Session:    s,
		Teacher:    t,
		Mode:       mode,
		Time:       ts,
		Type:       label,
		SubType:    st,
		Module:     m,
		ActivityID: activityID,
		Plugin:     p,
	}
}

// graph links already-sorted events into a ReportData the way the builder does.
func graph(events ...*models.Event) *models.ReportData {
	data := &models.ReportData{Events: events}
	seenT := map[*models.Teacher]bool{}
	seenS := map[*models.Session]bool{}
	seenM := map[*models.Module]bool{}
	for _, e := range events {
		if !seenT[e.Teacher] {
			seenT[e.Teacher] = true
			data.Teachers = append(data.Teachers, e.Teacher)
		}
		if !seenS[e.Session] {
			seenS[e.Session] = true
			data.Sessions = append(data.Sessions, e.Session)
		}
		if !seenM[e.Module] {
			seenM[e.Module] = true
			data.Modules = append(data.Modules, e.Module)
		}

		s := e.Session
		s.Events = append(s.Events, e)
		s.Modules = appendOnce(s.Modules, e.Module)
		s.Teachers = appendOnce(s.Teachers, e.Teacher)

		t := e.Teacher
		t.Events = append(t.Events, e)
		t.Modules = appendOnce(t.Modules, e.Module)
		t.Sessions = appendOnce(t.Sessions, e.Session)
	}
	for _, s := range data.Sessions {
		s.FirstDate = s.Events[0].Time
		s.LastDate = s.Events[len(s.Events)-1].Time
	}
	return data
}

func appendOnce[T comparable](list []T, v T) []T {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// groupIndex returns the column offset of a group within the group cells.
func groupIndex(title string) int {
	for i, g := range ColumnGroups {
		if g.Title == title {
			return i * len(SubColumns)
		}
	}
	panic("unknown group " + title)
}

func group(title string) ColumnGroup {
	return ColumnGroups[groupIndex(title)/len(SubColumns)]
}
