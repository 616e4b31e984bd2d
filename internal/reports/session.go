// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reports

import (
	"strconv"

	"github.com/tomtom215/tereport/internal/models"
)

var sessionColumns = []string{
	"User ID",
	"Teacher Name",
	"TE Module Name",
	"Mode - TE or Preview",
	"First Session Event",
	"Last Session Event",
	"Total Duration for Session (d:h:m:s)",
	"Number of Activities Used",
}

// SessionHeader returns the session report's header row.
func SessionHeader() []string {
	return append(append([]string{}, sessionColumns...), groupHeaders()...)
}

// SessionReport builds one row per (session, teacher, module, mode) that
// has events. Times and duration come from the whole session.
func SessionReport(data *models.ReportData) *Table {
	table := &Table{Header: SessionHeader()}
	for _, session := range data.Sessions {
		for _, teacher := range session.Teachers {
			for _, module := range session.Modules {
				for _, mode := range models.ReportModes {
					events := filterEvents(session.Events, func(e *models.Event) bool {
						return e.Teacher == teacher && e.Module == module && e.Mode == mode
					})
					if len(events) == 0 {
						continue
					}
					row := []string{
						teacher.ID,
						teacher.Name,
						module.Name,
						mode.String(),
						FormatTime(session.FirstDate),
						FormatTime(session.LastDate),
						FormatDuration(session.LastDate.Sub(session.FirstDate)),
						strconv.Itoa(countActivities(events)),
					}
					table.Rows = append(table.Rows, append(row, groupCells(mode, module, events)...))
				}
			}
		}
	}
	return table
}
