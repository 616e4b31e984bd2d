// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reportdata

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tomtom215/tereport/internal/models"
)

// teacherEditionMarker detects the Teacher Edition query parameter in an event URL.
var teacherEditionMarker = regexp.MustCompile(`\?.*mode=teacher-edition`)

// DecodeMode classifies an event by its recorded URL. Extras without a url
// key are unresolved; any url that is present, even empty or null, is
// Teacher Edition when it carries the marker and Preview otherwise.
func DecodeMode(extras models.Extras) models.TEMode {
	if !extras.Has("url") {
		return models.ModeUnresolved
	}
	if teacherEditionMarker.MatchString(extras.URL()) {
		return models.ModeTeacherEdition
	}
	return models.ModePreview
}

// timeLayouts are tried in order when parsing raw event timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

// ParseEventTime parses an ISO-8601-ish timestamp. Times without a zone are UTC.
func ParseEventTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// Event label families, as in "TeacherEdition-windowShade-TeacherTip TabOpened".
const (
	familyQuestionWrapper = "questionWrapper"
	familyWindowShade     = "windowShade"
	familySideTip         = "sideTip"
)

var teEventLabel = regexp.MustCompile(`^TeacherEdition-([A-Za-z]+)-(.*)$`)

var questionWrapperTokens = map[string]models.EventSubType{
	"correctexplanation":     models.SubTypeCorrectExplanation,
	"correct":                models.SubTypeCorrectExplanation,
	"distractorsexplanation": models.SubTypeDistractorsExplanation,
	"distractors":            models.SubTypeDistractorsExplanation,
	"exemplar":               models.SubTypeExemplar,
	"teachertip":             models.SubTypeTeacherTip,
}

// DecodeSubType derives which plugin tab an event refers to. The label
// supplies the plugin family; the event value names the tab, falling back
// to the label segment before " Tab".
func DecodeSubType(eventType, eventValue string) models.EventSubType {
	m := teEventLabel.FindStringSubmatch(eventType)
	if m == nil {
		return models.SubTypeNone
	}
	family, rest := m[1], m[2]
	if i := strings.Index(rest, " Tab"); i >= 0 {
		rest = rest[:i]
	}

	if st := subTypeForToken(family, eventValue); st != models.SubTypeNone {
		return st
	}
	return subTypeForToken(family, rest)
}

func subTypeForToken(family, token string) models.EventSubType {
	if token == "" {
		return models.SubTypeNone
	}
	switch family {
	case familyQuestionWrapper:
		return questionWrapperTokens[models.NormalizeToken(token)]
	case familyWindowShade:
		if kind, ok := models.ParseWindowShadeType(token); ok {
			return models.WindowShadeSubType(kind)
		}
	case familySideTip:
		// single tab
		return models.SubTypeNone
	}
	return models.SubTypeNone
}
