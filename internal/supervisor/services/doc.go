// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

// Package services adapts the report server's long-lived components to
// suture.Service: the HTTP listener and the cross-build caches.
package services
