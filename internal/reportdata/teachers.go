// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reportdata

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/metrics"
	"github.com/tomtom215/tereport/internal/models"
	"github.com/tomtom215/tereport/internal/upstream"
)

// TeacherResolver maps teacher ids to display names, asking the identity
// source at most once per id. It never fails: unresolvable names come back
// as models.NameNotAvailable.
type TeacherResolver struct {
	source upstream.IdentitySource
	logger zerolog.Logger

	mu    sync.Mutex
	names map[string]string
	group singleflight.Group
}

// NewTeacherResolver creates a resolver. A nil source resolves every id to
// the sentinel name.
func NewTeacherResolver(source upstream.IdentitySource) *TeacherResolver {
	return &TeacherResolver{
		source: source,
		logger: logging.WithComponent("teacher_resolver"),
		names:  make(map[string]string),
	}
}

func (r *TeacherResolver) cached(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.names[id]
	return name, ok
}

// Resolve returns the display name for id.
func (r *TeacherResolver) Resolve(ctx context.Context, id string) string {
	if name, ok := r.cached(id); ok {
		metrics.RecordResolverLookup("teacher", "hit")
		return name
	}

	v, _, _ := r.group.Do(id, func() (interface{}, error) {
		if name, ok := r.cached(id); ok {
			return name, nil
		}
		name := r.lookup(ctx, id)
		r.mu.Lock()
		r.names[id] = name
		r.mu.Unlock()
		return name, nil
	})
	return v.(string)
}

func (r *TeacherResolver) lookup(ctx context.Context, id string) string {
	if r.source == nil {
		metrics.RecordResolverLookup("teacher", "unresolved")
		return models.NameNotAvailable
	}
	name, err := r.source.TeacherName(ctx, id)
	if err != nil {
		metrics.RecordResolverLookup("teacher", "unresolved")
		r.logger.Warn().Err(err).Str("teacher_id", id).Msg("Teacher name lookup failed")
		return models.NameNotAvailable
	}
	name = strings.TrimSpace(name)
	if name == "" {
		metrics.RecordResolverLookup("teacher", "unresolved")
		r.logger.Warn().Str("teacher_id", id).Msg("Identity service returned a blank name")
		return models.NameNotAvailable
	}
	metrics.RecordResolverLookup("teacher", "fetch")
	return name
}
