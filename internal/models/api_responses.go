// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package models

import (
	"time"
)

// APIResponse is the JSON envelope for the server's non-CSV endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Server - Missing json, signature, or token"
//	  },
//	  "metadata": {"timestamp": "2026-05-28T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Missing or invalid form fields
//   - UNKNOWN_REPORT: The report query parameter named no known report
//   - UPSTREAM_ERROR: The event log could not be fetched
//   - BUILD_ERROR: The report data could not be built
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the data of GET /health.
//
// Status is "healthy" while every upstream circuit breaker is closed or
// half-open, and "degraded" once any is open.
type HealthStatus struct {
	Status   string            `json:"status"`
	Name     string            `json:"name"`
	Uptime   float64           `json:"uptime"` // seconds
	Breakers map[string]string `json:"breakers,omitempty"`
}
