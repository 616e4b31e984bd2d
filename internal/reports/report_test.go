// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reports

import (
	"bytes"
	"encoding/csv"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/tereport/internal/metrics"
	"github.com/tomtom215/tereport/internal/models"
)

func TestParseReportType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ReportType
		wantErr bool
	}{
		{"usageReport", Usage, false},
		{"sessionReport", Session, false},
		{"UsageReport", "", true},
		{"", "", true},
		{"detailReport", "", true},
	}
	for _, tt := range tests {
		got, err := ParseReportType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseReportType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownReportType) {
			t.Errorf("ParseReportType(%q) error = %v, want ErrUnknownReportType", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseReportType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	m := module("Seasons, Part 1", plugin("1", models.SideTip{}))
	teacher := &models.Teacher{ID: "28@x", Name: `Michigan "J." Frog`}
	s := &models.Session{Token: "s1"}
	data := graph(event(s, teacher, m, models.ModeTeacherEdition, at(0), stToggle, models.SubTypeNone, "100", m.Plugins()[0]))

	for _, kind := range []ReportType{Usage, Session} {
		t.Run(string(kind), func(t *testing.T) {
			before := testutil.ToFloat64(metrics.ReportsGeneratedTotal.WithLabelValues(string(kind)))

			var buf bytes.Buffer
			if err := Generate(&buf, kind, data); err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			records, err := csv.NewReader(&buf).ReadAll()
			if err != nil {
				t.Fatalf("output is not valid CSV: %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("len(records) = %d, want 2", len(records))
			}
			table, _ := Build(kind, data)
			if !reflect.DeepEqual(records[0], table.Header) {
				t.Error("CSV header does not match the table header")
			}
			if records[1][1] != teacher.Name || records[1][2] != m.Name {
				t.Errorf("identity cells = %q, %q", records[1][1], records[1][2])
			}

			after := testutil.ToFloat64(metrics.ReportsGeneratedTotal.WithLabelValues(string(kind)))
			if after-before != 1 {
				t.Errorf("reports generated delta = %v, want 1", after-before)
			}
		})
	}
}

func TestGenerate_UnknownType(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Generate(&buf, ReportType("detailReport"), &models.ReportData{})
	if !errors.Is(err, ErrUnknownReportType) {
		t.Errorf("Generate() error = %v, want ErrUnknownReportType", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Generate() wrote %d bytes on error", buf.Len())
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1559065269190)
	if got := FileName(Usage, now); got != "te-usagereport-1559065269190.csv" {
		t.Errorf("FileName() = %q", got)
	}
	if got := FileName(Session, now); got != "te-sessionreport-1559065269190.csv" {
		t.Errorf("FileName() = %q", got)
	}
}
