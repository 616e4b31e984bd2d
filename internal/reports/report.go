// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reports

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/metrics"
	"github.com/tomtom215/tereport/internal/models"
)

// ReportType selects a report. Values match the "report" query parameter.
type ReportType string

const (
	Usage   ReportType = "usageReport"
	Session ReportType = "sessionReport"
)

// ErrUnknownReportType is returned for an unrecognized report selector.
var ErrUnknownReportType = errors.New("unknown report type")

// ParseReportType maps a selector such as "usageReport" to a ReportType.
func ParseReportType(s string) (ReportType, error) {
	switch ReportType(s) {
	case Usage, Session:
		return ReportType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownReportType, s)
	}
}

// Table is a report's header and rows. Every row is as wide as the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// WriteCSV writes the header and rows as CSV.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// Build renders data as the given report.
func Build(kind ReportType, data *models.ReportData) (*Table, error) {
	switch kind {
	case Usage:
		return UsageReport(data), nil
	case Session:
		return SessionReport(data), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportType, string(kind))
	}
}

// Generate renders data as the given report and writes it to w as CSV.
func Generate(w io.Writer, kind ReportType, data *models.ReportData) error {
	table, err := Build(kind, data)
	if err != nil {
		return err
	}
	if err := table.WriteCSV(w); err != nil {
		return err
	}

	metrics.RecordReport(string(kind), len(table.Rows))
	logging.Debug().
		Str("report", string(kind)).
		Int("rows", len(table.Rows)).
		Int("columns", len(table.Header)).
		Msg("Report generated")
	return nil
}

// FileName returns the download name for a report generated at now,
// e.g. "te-usagereport-1559065269190.csv".
func FileName(kind ReportType, now time.Time) string {
	return fmt.Sprintf("te-%s-%d.csv", strings.ToLower(string(kind)), now.UnixMilli())
}
