// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package models

// TEMode tells whether an event happened while content was viewed in
// Teacher Edition mode or in plain Preview mode.
type TEMode int

const (
	// ModeUnresolved marks an event whose URL was missing, so the mode could not be decoded.
	ModeUnresolved TEMode = iota
	ModeTeacherEdition
	ModePreview
)

// String returns the label used in report cells.
func (m TEMode) String() string {
	switch m {
	case ModeTeacherEdition:
		return "Teacher Edition"
	case ModePreview:
		return "Preview"
	default:
		return "Unresolved"
	}
}

// ReportModes lists the resolved modes in report row order.
var ReportModes = []TEMode{ModeTeacherEdition, ModePreview}

// PluginType is the discriminant of a Plugin's definition.
type PluginType int

const (
	PluginQuestionWrapper PluginType = iota + 1
	PluginWindowShade
	PluginSideTip
)

func (p PluginType) String() string {
	switch p {
	case PluginQuestionWrapper:
		return "Question Wrapper"
	case PluginWindowShade:
		return "Window Shade"
	case PluginSideTip:
		return "Side Tip"
	default:
		return "Unknown"
	}
}

// WindowShadeType enumerates the window-shade variants authors can choose.
type WindowShadeType int

const (
	WindowShadeTeacherTip WindowShadeType = iota + 1
	WindowShadeTheoryAndBackground
	WindowShadeDiscussionPoints
	WindowShadeDiggingDeeper
	WindowShadeHowToUse
	WindowShadeFramingTheActivity
	WindowShadeDemo
	WindowShadeOfflineActivity
)

// windowShadeNames maps each shade to its display label.
var windowShadeNames = map[WindowShadeType]string{
	WindowShadeTeacherTip:          "Teacher Tip",
	WindowShadeTheoryAndBackground: "Theory & Background",
	WindowShadeDiscussionPoints:    "Discussion Points",
	WindowShadeDiggingDeeper:       "Digging Deeper",
	WindowShadeHowToUse:            "How To Use",
	WindowShadeFramingTheActivity:  "Framing The Activity",
	WindowShadeDemo:                "Demo",
	WindowShadeOfflineActivity:     "Offline Activity",
}

func (w WindowShadeType) String() string {
	if name, ok := windowShadeNames[w]; ok {
		return name
	}
	return "Unknown"
}

// windowShadeTokens maps normalized author tokens (lowercase, letters only)
// to shade types. "teachertip" and "theoryandbackground" cover both the
// camelCase author_data values and the display labels.
var windowShadeTokens = map[string]WindowShadeType{
	"teachertip":          WindowShadeTeacherTip,
	"theoryandbackground": WindowShadeTheoryAndBackground,
	"theorybackground":    WindowShadeTheoryAndBackground,
	"discussionpoints":    WindowShadeDiscussionPoints,
	"diggingdeeper":       WindowShadeDiggingDeeper,
	"howtouse":            WindowShadeHowToUse,
	"framingtheactivity":  WindowShadeFramingTheActivity,
	"demo":                WindowShadeDemo,
	"offlineactivity":     WindowShadeOfflineActivity,
}

// ParseWindowShadeType resolves an author-supplied shade name. Matching is
// case-insensitive and ignores anything that is not a letter.
func ParseWindowShadeType(s string) (WindowShadeType, bool) {
	w, ok := windowShadeTokens[NormalizeToken(s)]
	return w, ok
}

// EventSubType is the fine-grained classification of which plugin tab fired.
type EventSubType int

const (
	SubTypeNone EventSubType = iota
	SubTypeCorrectExplanation
	SubTypeDistractorsExplanation
	SubTypeExemplar
	SubTypeTeacherTip
	SubTypeWindowShadeTeacherTip
	SubTypeWindowShadeTheoryAndBackground
	SubTypeWindowShadeDiscussionPoints
	SubTypeWindowShadeDiggingDeeper
	SubTypeWindowShadeHowToUse
	SubTypeWindowShadeFramingTheActivity
	SubTypeWindowShadeDemo
	SubTypeWindowShadeOfflineActivity
)

// WindowShadeSubType returns the event sub-type that corresponds to a shade.
func WindowShadeSubType(w WindowShadeType) EventSubType {
	switch w {
	case WindowShadeTeacherTip:
		return SubTypeWindowShadeTeacherTip
	case WindowShadeTheoryAndBackground:
		return SubTypeWindowShadeTheoryAndBackground
	case WindowShadeDiscussionPoints:
		return SubTypeWindowShadeDiscussionPoints
	case WindowShadeDiggingDeeper:
		return SubTypeWindowShadeDiggingDeeper
	case WindowShadeHowToUse:
		return SubTypeWindowShadeHowToUse
	case WindowShadeFramingTheActivity:
		return SubTypeWindowShadeFramingTheActivity
	case WindowShadeDemo:
		return SubTypeWindowShadeDemo
	case WindowShadeOfflineActivity:
		return SubTypeWindowShadeOfflineActivity
	default:
		return SubTypeNone
	}
}

// NormalizeToken lowercases s and drops every non-letter rune.
func NormalizeToken(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c)
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		}
	}
	return string(out)
}
