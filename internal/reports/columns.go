// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reports

import (
	"math"
	"regexp"
	"strconv"

	"github.com/tomtom215/tereport/internal/models"
)

// SubColumns are the four cells every column group expands to.
var SubColumns = []string{
	"Number of Tabs in Module",
	"Total Number of Toggles",
	"Number of Tabs Toggled at Least Once",
	"% of Tabs Toggled at least Once",
}

// Toggle event labels per plugin family. The segment before " Tab" is not
// trusted: question wrappers label every tab "TeacherTip" and carry the
// real tab in the event value, which SubType already reflects.
var (
	questionWrapperToggle = regexp.MustCompile(`^TeacherEdition-questionWrapper-.+ Tab(Opened|Closed)$`)
	windowShadeToggle     = regexp.MustCompile(`^TeacherEdition-windowShade-.+ Tab(Opened|Closed)$`)
	sideTipToggle         = regexp.MustCompile(`^TeacherEdition-sideTip-.+ Tab(Opened|Closed)$`)
)

// ColumnGroup is one kind of Teacher Edition tab reported as four cells.
type ColumnGroup struct {
	Title   string
	Family  models.PluginType
	SubType models.EventSubType // SubTypeNone for side tips

	toggle *regexp.Regexp
}

func questionWrapperGroup(title string, st models.EventSubType) ColumnGroup {
	return ColumnGroup{
		Title:   "Question Wrapper - " + title,
		Family:  models.PluginQuestionWrapper,
		SubType: st,
		toggle:  questionWrapperToggle,
	}
}

func windowShadeGroup(kind models.WindowShadeType) ColumnGroup {
	return ColumnGroup{
		Title:   "Window Shade - " + kind.String(),
		Family:  models.PluginWindowShade,
		SubType: models.WindowShadeSubType(kind),
		toggle:  windowShadeToggle,
	}
}

// ColumnGroups is the fixed column taxonomy shared by every report.
var ColumnGroups = []ColumnGroup{
	questionWrapperGroup("Correct Tab", models.SubTypeCorrectExplanation),
	questionWrapperGroup("Distractors Tab", models.SubTypeDistractorsExplanation),
	questionWrapperGroup("Teacher Tip Tab", models.SubTypeTeacherTip),
	questionWrapperGroup("Exemplar Tab", models.SubTypeExemplar),
	windowShadeGroup(models.WindowShadeTeacherTip),
	windowShadeGroup(models.WindowShadeTheoryAndBackground),
	windowShadeGroup(models.WindowShadeDiscussionPoints),
	windowShadeGroup(models.WindowShadeDiggingDeeper),
	windowShadeGroup(models.WindowShadeHowToUse),
	windowShadeGroup(models.WindowShadeFramingTheActivity),
	windowShadeGroup(models.WindowShadeDemo),
	windowShadeGroup(models.WindowShadeOfflineActivity),
	{
		Title:  "Side Tip",
		Family: models.PluginSideTip,
		toggle: sideTipToggle,
	},
}

// MatchesPlugin reports whether p is a tab counted by the group.
func (g ColumnGroup) MatchesPlugin(p *models.Plugin) bool {
	if p == nil || p.Type() != g.Family {
		return false
	}
	switch def := p.Def.(type) {
	case models.QuestionWrapper:
		return def.HasSubType(g.SubType)
	case models.WindowShade:
		return models.WindowShadeSubType(def.Kind) == g.SubType
	case models.SideTip:
		return true
	default:
		return false
	}
}

// MatchesEvent reports whether e toggles a tab of the group.
func (g ColumnGroup) MatchesEvent(e *models.Event) bool {
	if !g.toggle.MatchString(e.Type) {
		return false
	}
	return g.Family == models.PluginSideTip || e.SubType == g.SubType
}

// Cells computes the group's four cells for a module and the events of one row.
func (g ColumnGroup) Cells(module *models.Module, events []*models.Event) []string {
	tabs := make(map[*models.Plugin]bool)
	for _, p := range module.Plugins() {
		if g.MatchesPlugin(p) {
			tabs[p] = true
		}
	}
	if len(tabs) == 0 {
		return []string{"0", "", "", ""}
	}

	toggles := 0
	toggled := make(map[*models.Plugin]bool)
	for _, e := range events {
		if !g.MatchesEvent(e) {
			continue
		}
		toggles++
		if e.Plugin != nil && tabs[e.Plugin] {
			toggled[e.Plugin] = true
		}
	}

	return []string{
		strconv.Itoa(len(tabs)),
		strconv.Itoa(toggles),
		strconv.Itoa(len(toggled)),
		strconv.Itoa(Percent(len(toggled), len(tabs))),
	}
}

// Percent returns part/whole as a whole-number percentage, rounded half
// away from zero. A zero whole yields 0.
func Percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// groupHeaders returns "<group>: <sub-column>" for every group cell.
func groupHeaders() []string {
	headers := make([]string, 0, len(ColumnGroups)*len(SubColumns))
	for _, g := range ColumnGroups {
		for _, sub := range SubColumns {
			headers = append(headers, g.Title+": "+sub)
		}
	}
	return headers
}

// groupCells returns the group cells of a row. Preview rows are blank.
func groupCells(mode models.TEMode, module *models.Module, events []*models.Event) []string {
	cells := make([]string, 0, len(ColumnGroups)*len(SubColumns))
	if mode != models.ModeTeacherEdition {
		for i := 0; i < cap(cells); i++ {
			cells = append(cells, "")
		}
		return cells
	}
	for _, g := range ColumnGroups {
		cells = append(cells, g.Cells(module, events)...)
	}
	return cells
}
