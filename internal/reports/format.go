// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reports

import (
	"fmt"
	"time"
)

// FormatTime renders a report timestamp in RFC3339, UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatDuration renders d as "days:hours:minutes:seconds" without padding,
// e.g. "1:2:3:4". Sub-second remainders are dropped.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%d:%d:%d", days, hours, minutes, seconds)
}
