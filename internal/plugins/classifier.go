// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

// Package plugins extracts Teacher Edition annotations from an activity's
// raw content tree.
//
// An activity export nests its annotations as
//
//	pages[].embeddables[].embeddable.plugin
//
// and a plugin is a Teacher Edition annotation when its approved script
// label is "teacherEditionTips". The plugin's author_data is itself a JSON
// document whose tipType selects the annotation kind.
package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/metrics"
	"github.com/tomtom215/tereport/internal/models"
)

// ScriptLabel marks an embeddable plugin as a Teacher Edition annotation.
const ScriptLabel = "teacherEditionTips"

// Tip types as written by the authoring plugin.
const (
	TipQuestionWrapper = "questionWrapper"
	TipWindowShade     = "windowShade"
	TipSideTip         = "sideTip"
)

// ErrMalformedAnnotation is wrapped by every AnnotationError.
var ErrMalformedAnnotation = errors.New("malformed teacher edition annotation")

// AnnotationError reports an annotation whose author_data is not valid JSON.
type AnnotationError struct {
	RefID string
	Err   error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("plugin %s: %v: %v", e.RefID, ErrMalformedAnnotation, e.Err)
}

func (e *AnnotationError) Unwrap() []error {
	return []error{ErrMalformedAnnotation, e.Err}
}

type rawActivity struct {
	Pages []rawPage `json:"pages"`
}

type rawPage struct {
	Embeddables []rawEmbeddableEntry `json:"embeddables"`
}

type rawEmbeddableEntry struct {
	Embeddable *rawEmbeddable `json:"embeddable"`
}

type rawEmbeddable struct {
	RefID  string            `json:"ref_id"`
	ID     models.FlexString `json:"id"`
	Type   string            `json:"type"`
	Plugin *rawPlugin        `json:"plugin"`
}

// AuthorData is normally a JSON document encoded as a string, but some
// exports inline it as an object.
type rawPlugin struct {
	ApprovedScriptLabel string          `json:"approved_script_label"`
	AuthorData          json.RawMessage `json:"author_data"`
}

type authorData struct {
	TipType         string           `json:"tipType"`
	QuestionWrapper *questionWrapper `json:"questionWrapper"`
	WindowShade     *windowShade     `json:"windowShade"`
}

// Field values are decoded loosely; only non-blank strings count.
type questionWrapper struct {
	CorrectExplanation     interface{} `json:"correctExplanation"`
	DistractorsExplanation interface{} `json:"distractorsExplanation"`
	Exemplar               interface{} `json:"exemplar"`
	TeacherTip             interface{} `json:"teacherTip"`
}

type windowShade struct {
	WindowShadeType interface{} `json:"windowShadeType"`
	Type            interface{} `json:"type"`
}

// Extract returns the Teacher Edition plugins of one activity in content
// order.
//
// Missing or malformed structure (nil input, no pages, no embeddables)
// yields an empty list. Annotations with a missing or unknown tipType, or a
// window shade with no recognizable kind, are skipped with a warning. An
// annotation whose author_data is not valid JSON fails the whole activity
// with an *AnnotationError.
func Extract(raw json.RawMessage) ([]*models.Plugin, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}

	var activity rawActivity
	if err := json.Unmarshal(raw, &activity); err != nil {
		// Structural mismatch (e.g. pages is not a list) is treated as absent content.
		logging.Debug().Err(err).Msg("Activity content does not match the page schema")
		return nil, nil
	}

	var plugins []*models.Plugin
	for _, page := range activity.Pages {
		for _, entry := range page.Embeddables {
			e := entry.Embeddable
			if e == nil || e.Plugin == nil || e.Plugin.ApprovedScriptLabel != ScriptLabel {
				continue
			}
			p, err := classify(e)
			if err != nil {
				return nil, err
			}
			if p != nil {
				plugins = append(plugins, p)
			}
		}
	}
	return plugins, nil
}

func refID(e *rawEmbeddable) string {
	if e.RefID != "" {
		return e.RefID
	}
	if e.ID != "" {
		return fmt.Sprintf("%s-%s", e.ID, e.Type)
	}
	return ""
}

// classify returns nil, nil for annotations that are skipped.
func classify(e *rawEmbeddable) (*models.Plugin, error) {
	id := refID(e)

	payload, err := authorPayload(e.Plugin.AuthorData)
	if err != nil {
		metrics.RecordPluginSkipped("malformed")
		return nil, &AnnotationError{RefID: id, Err: err}
	}
	if len(payload) == 0 {
		skip(id, "missing_tip_type").Msg("Annotation has no author data; skipping")
		return nil, nil
	}

	var data authorData
	if err := json.Unmarshal(payload, &data); err != nil {
		metrics.RecordPluginSkipped("malformed")
		return nil, &AnnotationError{RefID: id, Err: err}
	}

	switch data.TipType {
	case TipQuestionWrapper:
		var q models.QuestionWrapper
		if data.QuestionWrapper != nil {
			q = models.QuestionWrapper{
				CorrectExplanation:     significant(data.QuestionWrapper.CorrectExplanation),
				DistractorsExplanation: significant(data.QuestionWrapper.DistractorsExplanation),
				Exemplar:               significant(data.QuestionWrapper.Exemplar),
				TeacherTip:             significant(data.QuestionWrapper.TeacherTip),
			}
		}
		return &models.Plugin{RefID: id, Def: q}, nil

	case TipWindowShade:
		name := ""
		if data.WindowShade != nil {
			name = text(data.WindowShade.WindowShadeType)
			if name == "" {
				name = text(data.WindowShade.Type)
			}
		}
		if name == "" {
			skip(id, "missing_shade_type").Msg("Window shade annotation has no shade type; skipping")
			return nil, nil
		}
		kind, ok := models.ParseWindowShadeType(name)
		if !ok {
			skip(id, "unknown_shade_type").Str("shade_type", name).Msg("Unrecognized window shade type; skipping")
			return nil, nil
		}
		return &models.Plugin{RefID: id, Def: models.WindowShade{Kind: kind}}, nil

	case TipSideTip:
		return &models.Plugin{RefID: id, Def: models.SideTip{}}, nil

	case "":
		skip(id, "missing_tip_type").Msg("No tipType in annotation author data; skipping")
		return nil, nil

	default:
		skip(id, "unknown_tip_type").Str("tip_type", data.TipType).Msg("Unrecognized tipType; skipping")
		return nil, nil
	}
}

// authorPayload unwraps the string encoding of author_data. A null or blank
// value returns an empty payload.
func authorPayload(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return bytes.TrimSpace([]byte(s)), nil
}

func skip(refID, reason string) *zerolog.Event {
	metrics.RecordPluginSkipped(reason)
	return logging.Warn().Str("component", "plugins").Str("ref_id", refID).Str("reason", reason)
}

func text(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func significant(v interface{}) bool {
	return text(v) != ""
}
