// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

/*
Package reports renders a built models.ReportData as tabular CSV reports.

Two reports are available:

  - usageReport: one row per (teacher, module, mode) with at least one event
  - sessionReport: one row per (session, teacher, module, mode) with at least one event

Both share the same trailing column taxonomy, ColumnGroups. Each group covers
one kind of Teacher Edition tab and expands to four cells: the number of
such tabs in the module, the number of toggle events, the number of tabs
toggled at least once, and that count as a percentage of the tabs.

Usage:

	kind, err := reports.ParseReportType(r.URL.Query().Get("report"))
	if err != nil {
	    return err
	}
	if err := reports.Generate(w, kind, data); err != nil {
	    return err
	}

Preview rows leave every group cell blank. A group with no matching tabs in
the module reports "0" followed by three blanks.
*/
package reports
