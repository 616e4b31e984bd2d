// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reports

import (
	"sort"
	"strconv"
	"time"

	"github.com/tomtom215/tereport/internal/models"
)

var usageColumns = []string{
	"User ID",
	"Teacher Name",
	"TE Module Name",
	"Mode - TE or Preview",
	"Number of Sessions Launched",
	"Time of First Session's Launch",
	"Time of Last Session's Launch",
	"Number of Activities Used",
	"Total Duration for Module (d:h:m:s)",
}

// UsageHeader returns the usage report's header row.
func UsageHeader() []string {
	return append(append([]string{}, usageColumns...), groupHeaders()...)
}

// UsageReport builds one row per (teacher, module, mode) that has events.
// Rows follow teacher order, then the teacher's module order, then
// Teacher Edition before Preview.
func UsageReport(data *models.ReportData) *Table {
	table := &Table{Header: UsageHeader()}
	for _, teacher := range data.Teachers {
		for _, module := range teacher.Modules {
			for _, mode := range models.ReportModes {
				events := filterEvents(teacher.Events, func(e *models.Event) bool {
					return e.Module == module && e.Mode == mode
				})
				if len(events) == 0 {
					continue
				}
				table.Rows = append(table.Rows, usageRow(teacher, module, mode, events))
			}
		}
	}
	return table
}

func usageRow(teacher *models.Teacher, module *models.Module, mode models.TEMode, events []*models.Event) []string {
	sessions := distinctSessions(events)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].FirstDate.Before(sessions[j].FirstDate)
	})

	lastLaunch := ""
	if len(sessions) > 1 {
		lastLaunch = FormatTime(sessions[len(sessions)-1].FirstDate)
	}

	var sessionEvents []*models.Event
	for _, s := range sessions {
		sessionEvents = append(sessionEvents, s.Events...)
	}
	first, last := span(sessionEvents)

	row := []string{
		teacher.ID,
		teacher.Name,
		module.Name,
		mode.String(),
		strconv.Itoa(len(sessions)),
		FormatTime(sessions[0].FirstDate),
		lastLaunch,
		strconv.Itoa(countActivities(sessionEvents)),
		FormatDuration(last.Sub(first)),
	}
	return append(row, groupCells(mode, module, events)...)
}

func filterEvents(events []*models.Event, keep func(*models.Event) bool) []*models.Event {
	var out []*models.Event
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func distinctSessions(events []*models.Event) []*models.Session {
	seen := make(map[*models.Session]bool)
	var sessions []*models.Session
	for _, e := range events {
		if !seen[e.Session] {
			seen[e.Session] = true
			sessions = append(sessions, e.Session)
		}
	}
	return sessions
}

func countActivities(events []*models.Event) int {
	ids := make(map[string]bool)
	for _, e := range events {
		ids[e.ActivityID] = true
	}
	return len(ids)
}

// span returns the earliest and latest event times. Events need not be sorted.
func span(events []*models.Event) (first, last time.Time) {
	for i, e := range events {
		if i == 0 || e.Time.Before(first) {
			first = e.Time
		}
		if i == 0 || e.Time.After(last) {
			last = e.Time
		}
	}
	return first, last
}
