// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reports

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:0:0:0"},
		{59 * time.Second, "0:0:0:59"},
		{90*time.Minute + 1500*time.Millisecond, "0:1:30:1"},
		{49*time.Hour + 3*time.Minute + 4*time.Second, "2:1:3:4"},
		{-time.Minute, "0:0:0:0"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2019, 5, 28, 19, 41, 9, 190e6, time.FixedZone("CEST", 2*3600))
	if got := FormatTime(ts); got != "2019-05-28T17:41:09Z" {
		t.Errorf("FormatTime() = %q, want 2019-05-28T17:41:09Z", got)
	}
}
