// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

/*
Package api is the report server's HTTP front door.

Routes:

	GET  /          server name, plain text
	GET  /health    JSON status and uptime
	GET  /metrics   Prometheus exposition
	POST /          ?report=usageReport|sessionReport

POST / reads the form fields json, signature, and portal_token (a JSON body
with the same keys is also accepted). It fetches the event log from the log
puller, builds the report data, and streams the selected report back as a
CSV attachment named te-<report>-<unix millis>.csv.

Errors on POST / are plain text by default, which is what the Portal report
page displays. Clients sending Accept: application/json get the
models.APIResponse envelope instead.

	| Outcome                          | Status |
	|----------------------------------|--------|
	| missing json/signature/token     | 400    |
	| unknown or malformed report args | 400    |
	| log puller failure               | 500    |
	| fatal build error                | 500    |

Middleware order: RequestID, RealIP, Recoverer, CORS, and security headers
at the root. The report route adds Prometheus metrics, rate limiting, and
compression.
*/
package api
