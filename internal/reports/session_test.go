// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reports

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/tereport/internal/models"
)

func TestSessionReport(t *testing.T) {
	t.Parallel()

	tip := plugin("1-Embeddable::EmbeddablePlugin", models.WindowShade{Kind: models.WindowShadeTeacherTip})
	m := module("Seasons", tip)
	frog := &models.Teacher{ID: "28@x", Name: "Frog"}
	toad := &models.Teacher{ID: "31@x", Name: "Toad"}
	s1 := &models.Session{Token: "s1"}
	s2 := &models.Session{Token: "s2"}
	te, preview := models.ModeTeacherEdition, models.ModePreview

	data := graph(
		event(s1, frog, m, te, at(0), wsTipToggle, models.SubTypeWindowShadeTeacherTip, "100", tip),
		event(s1, frog, m, preview, at(time.Hour), "submit", models.SubTypeNone, "100", nil),
		event(s1, toad, m, te, at(time.Hour+time.Minute), "submit", models.SubTypeNone, "101", nil),
		event(s2, frog, m, te, at(2*time.Hour), "submit", models.SubTypeNone, "100", nil),
		event(s2, frog, m, te, at(26*time.Hour+30*time.Second), wsTipToggle, models.SubTypeWindowShadeTeacherTip, "102", tip),
	)
	table := SessionReport(data)

	if len(table.Header) != len(sessionColumns)+52 {
		t.Fatalf("len(Header) = %d", len(table.Header))
	}
	if len(table.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(table.Rows))
	}

	want := [][]string{
		{"28@x", "Frog", "Seasons", "Teacher Edition", "2019-05-28T17:00:00Z", "2019-05-28T18:01:00Z", "0:1:1:0", "1"},
		{"28@x", "Frog", "Seasons", "Preview", "2019-05-28T17:00:00Z", "2019-05-28T18:01:00Z", "0:1:1:0", "1"},
		{"31@x", "Toad", "Seasons", "Teacher Edition", "2019-05-28T17:00:00Z", "2019-05-28T18:01:00Z", "0:1:1:0", "1"},
		{"28@x", "Frog", "Seasons", "Teacher Edition", "2019-05-28T19:00:00Z", "2019-05-29T19:00:30Z", "1:0:0:30", "2"},
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Header) {
			t.Errorf("row %d width = %d, want %d", i, len(row), len(table.Header))
		}
		if got := row[:len(sessionColumns)]; !reflect.DeepEqual(got, want[i]) {
			t.Errorf("row %d = %q, want %q", i, got, want[i])
		}
	}

	tipCells := func(row []string) []string {
		i := len(sessionColumns) + groupIndex("Window Shade - Teacher Tip")
		return row[i : i+4]
	}
	if got, want := tipCells(table.Rows[0]), []string{"1", "1", "1", "100"}; !reflect.DeepEqual(got, want) {
		t.Errorf("s1 frog tip cells = %q, want %q", got, want)
	}
	if got, want := tipCells(table.Rows[2]), []string{"1", "0", "0", "0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("s1 toad tip cells = %q, want %q", got, want)
	}
	if got, want := tipCells(table.Rows[3]), []string{"1", "1", "1", "100"}; !reflect.DeepEqual(got, want) {
		t.Errorf("s2 frog tip cells = %q, want %q", got, want)
	}
	if got := tipCells(table.Rows[1]); !reflect.DeepEqual(got, []string{"", "", "", ""}) {
		t.Errorf("preview tip cells = %q, want blanks", got)
	}
}
