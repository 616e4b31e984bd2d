// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

/*
Package models defines the data structures shared across the report pipeline.

The package holds three groups of types:

 1. Wire Models: records as they arrive from upstream services.
    - RawEvent: one log-puller record (session, username, activity, event, time, extras)
    - LogRequest: the signed request JSON forwarded to the log-puller
    - ContentExport: the subset of an authoring-service export the pipeline reads

 2. Graph Models: the cross-linked report-data graph built by package reportdata.
    - Event, Teacher, Module, Activity, Session
    - Plugin with its tagged definition (QuestionWrapper, WindowShade, SideTip)
    - ReportData: the root aggregate handed to report generators

 3. API Models: JSON envelopes used by the HTTP front door.
    - APIResponse, APIError, Metadata

Graph entities reference each other through pointers. Identity comparisons
(event.Session == session) are pointer comparisons; every entity is created
exactly once per build so pointer identity matches key identity.

Thread Safety: graph values are not synchronized. A ReportData is built by a
single goroutine and is read-only once Build returns.
*/
package models
