// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

// Package reportdata turns a raw event log into the cross-referenced
// ReportData graph the report generators walk.
//
// A build runs in two phases. Phase 1 ingests events in input order,
// resolving each event's session, teacher, and module and decoding its
// mode, activity id, sub-type, and plugin. Phase 2 drops everything that
// does not belong to a Teacher Edition module, sorts the survivors by time,
// and links sessions, teachers, and modules to each other.
//
// Module exports and teacher names are fetched at most once per build.
// With BuildOptions.PrefetchConcurrency set, distinct ids are resolved
// concurrently before Phase 1 starts.
package reportdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/metrics"
	"github.com/tomtom215/tereport/internal/models"
	"github.com/tomtom215/tereport/internal/upstream"
)

// BuildOptions tunes a Builder.
type BuildOptions struct {
	// PrefetchConcurrency bounds concurrent upstream lookups before Phase 1.
	// Zero disables prefetching.
	PrefetchConcurrency int

	// Now stamps ReportData.BuiltAt. Defaults to time.Now.
	Now func() time.Time
}

// Builder produces ReportData from raw events. A Builder holds no per-build
// state and may be shared between goroutines.
type Builder struct {
	content  upstream.ContentSource
	identity upstream.IdentitySource
	opts     BuildOptions
}

// NewBuilder creates a Builder over the given sources.
func NewBuilder(content upstream.ContentSource, identity upstream.IdentitySource, opts BuildOptions) *Builder {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{content: content, identity: identity, opts: opts}
}

// Build ingests raw and returns the reduced graph.
//
// Invalid raw records, malformed module ids, and content exports that are
// not JSON objects abort the build. Modules that cannot be fetched are
// recorded in Stats.UnresolvedModules and their events dropped.
func (b *Builder) Build(ctx context.Context, raw []models.RawEvent) (data *models.ReportData, err error) {
	start := time.Now()
	defer func() { metrics.RecordBuild(time.Since(start), err) }()

	bc := newBuildContext(b.content, b.identity)

	if b.opts.PrefetchConcurrency > 0 {
		if err := bc.prefetch(ctx, raw, b.opts.PrefetchConcurrency); err != nil {
			return nil, err
		}
	}

	for i := range raw {
		if err := bc.ingest(ctx, i, &raw[i]); err != nil {
			return nil, err
		}
	}

	data = bc.reduce()
	data.BuiltAt = b.opts.Now().UTC()
	data.Stats.RawEvents = len(raw)

	logging.CtxInfo(ctx).
		Int("raw_events", data.Stats.RawEvents).
		Int("teachers", data.Stats.RetainedTeachers).
		Int("sessions", data.Stats.RetainedSessions).
		Int("unresolved_modules", len(data.Stats.UnresolvedModules)).
		Msgf("%d event(s) resolved with references to %d module(s)", len(data.Events), len(data.Modules))
	return data, nil
}

// buildContext holds everything one build accumulates.
type buildContext struct {
	modules  *ModuleResolver
	teachers *TeacherResolver

	sessions    map[string]*models.Session
	teacherByID map[string]*models.Teacher

	moduleOrder    []*models.Module
	moduleSeen     map[*models.Module]bool
	unresolved     []string
	unresolvedSeen map[string]bool

	events []*models.Event
}

func newBuildContext(content upstream.ContentSource, identity upstream.IdentitySource) *buildContext {
	return &buildContext{
		modules:        NewModuleResolver(content, NewModuleCache()),
		teachers:       NewTeacherResolver(identity),
		sessions:       make(map[string]*models.Session),
		teacherByID:    make(map[string]*models.Teacher),
		moduleSeen:     make(map[*models.Module]bool),
		unresolvedSeen: make(map[string]bool),
	}
}

// prefetch resolves every distinct well-formed module id and teacher id
// with at most limit lookups in flight.
func (bc *buildContext) prefetch(ctx context.Context, raw []models.RawEvent, limit int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	moduleIDs := make(map[string]bool)
	teacherIDs := make(map[string]bool)
	for i := range raw {
		moduleID, username := raw[i].Activity, raw[i].Username

		if _, _, err := ParseExternalID(moduleID); err == nil && !moduleIDs[moduleID] {
			moduleIDs[moduleID] = true
			g.Go(func() error {
				if _, err := bc.modules.Resolve(gctx, moduleID); IsFatal(err) {
					return err
				}
				return nil
			})
		}
		if username != "" && !teacherIDs[username] {
			teacherIDs[username] = true
			g.Go(func() error {
				bc.teachers.Resolve(gctx, username)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("prefetch: %w", err)
	}
	logging.CtxInfo(ctx).
		Int("modules", len(moduleIDs)).
		Int("teachers", len(teacherIDs)).
		Msg("Prefetched upstream references")
	return nil
}

// ingest runs Phase 1 for one raw event.
func (bc *buildContext) ingest(ctx context.Context, index int, raw *models.RawEvent) error {
	ts, err := validate(index, raw)
	if err != nil {
		return err
	}

	session := bc.session(raw.Session)
	teacher := bc.teacher(ctx, raw.Username)
	mode := DecodeMode(raw.Extras)

	module, err := bc.modules.Resolve(ctx, raw.Activity)
	switch {
	case err == nil:
		bc.noteModule(module)
	case errors.Is(err, ErrModuleUnavailable):
		bc.noteUnresolved(raw.Activity)
		module = nil
	default:
		return fmt.Errorf("event %d: %w", index, err)
	}

	event := &models.Event{
		Session:    session,
		Teacher:    teacher,
		Mode:       mode,
		Time:       ts,
		Type:       raw.Event,
		SubType:    DecodeSubType(raw.Event, raw.Value()),
		Module:     module,
		ActivityID: raw.Extras.ActivityID(),
	}
	if module != nil && module.IsTEModule {
		event.Plugin = module.FindPlugin(raw.Extras.EmbeddablePluginID())
	}
	bc.events = append(bc.events, event)
	return nil
}

func validate(index int, raw *models.RawEvent) (time.Time, error) {
	fail := func(reason string) error {
		return &InvalidEventError{Index: index, ID: string(raw.ID), Reason: reason}
	}
	switch {
	case raw.Session == "":
		return time.Time{}, fail("missing session")
	case raw.Username == "":
		return time.Time{}, fail("missing username")
	case raw.Activity == "":
		return time.Time{}, fail("missing activity")
	case raw.Event == "":
		return time.Time{}, fail("missing event")
	case raw.Time == "":
		return time.Time{}, fail("missing time")
	}
	ts, err := ParseEventTime(raw.Time)
	if err != nil {
		return time.Time{}, fail(err.Error())
	}
	return ts, nil
}

func (bc *buildContext) session(token string) *models.Session {
	if s, ok := bc.sessions[token]; ok {
		return s
	}
	s := &models.Session{Token: token}
	bc.sessions[token] = s
	return s
}

func (bc *buildContext) teacher(ctx context.Context, id string) *models.Teacher {
	if t, ok := bc.teacherByID[id]; ok {
		return t
	}
	t := &models.Teacher{ID: id, Name: bc.teachers.Resolve(ctx, id)}
	bc.teacherByID[id] = t
	return t
}

func (bc *buildContext) noteModule(m *models.Module) {
	if !bc.moduleSeen[m] {
		bc.moduleSeen[m] = true
		bc.moduleOrder = append(bc.moduleOrder, m)
	}
}

func (bc *buildContext) noteUnresolved(externalID string) {
	if !bc.unresolvedSeen[externalID] {
		bc.unresolvedSeen[externalID] = true
		bc.unresolved = append(bc.unresolved, externalID)
	}
}

// reduce runs Phase 2.
func (bc *buildContext) reduce() *models.ReportData {
	data := &models.ReportData{}
	stats := &data.Stats
	stats.ResolvedModules = len(bc.moduleOrder)
	stats.UnresolvedModules = bc.unresolved

	for _, m := range bc.moduleOrder {
		if m.IsTEModule {
			data.Modules = append(data.Modules, m)
		}
	}
	stats.TEModules = len(data.Modules)

	for _, e := range bc.events {
		switch {
		case e.Module == nil:
			stats.DroppedNoModule++
		case !e.Module.IsTEModule:
			stats.DroppedNonTE++
		case e.Mode == models.ModeUnresolved:
			stats.DroppedNoMode++
		case e.ActivityID == "":
			stats.DroppedNoActivity++
		default:
			data.Events = append(data.Events, e)
		}
	}
	sort.SliceStable(data.Events, func(i, j int) bool {
		return data.Events[i].Time.Before(data.Events[j].Time)
	})
	stats.RetainedEvents = len(data.Events)

	metrics.RecordEventOutcome("retained", stats.RetainedEvents)
	metrics.RecordEventOutcome("no_module", stats.DroppedNoModule)
	metrics.RecordEventOutcome("non_te", stats.DroppedNonTE)
	metrics.RecordEventOutcome("no_mode", stats.DroppedNoMode)
	metrics.RecordEventOutcome("no_activity", stats.DroppedNoActivity)

	seenTeacher := make(map[*models.Teacher]bool)
	seenSession := make(map[*models.Session]bool)
	for _, e := range data.Events {
		if !seenTeacher[e.Teacher] {
			seenTeacher[e.Teacher] = true
			data.Teachers = append(data.Teachers, e.Teacher)
		}
		if !seenSession[e.Session] {
			seenSession[e.Session] = true
			data.Sessions = append(data.Sessions, e.Session)
		}
	}

	for _, e := range data.Events {
		s := e.Session
		s.Events = append(s.Events, e)
		s.Modules = appendUnique(s.Modules, e.Module)
		s.Teachers = appendUnique(s.Teachers, e.Teacher)
	}
	for _, s := range data.Sessions {
		s.FirstDate = s.Events[0].Time
		s.LastDate = s.Events[len(s.Events)-1].Time
	}

	for _, e := range data.Events {
		t := e.Teacher
		t.Events = append(t.Events, e)
		t.Modules = appendUnique(t.Modules, e.Module)
		t.Sessions = appendUnique(t.Sessions, e.Session)
	}

	stats.RetainedTeachers = len(data.Teachers)
	stats.RetainedSessions = len(data.Sessions)
	return data
}

func appendUnique[T comparable](list []T, v T) []T {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
