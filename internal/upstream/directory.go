// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package upstream

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirectorySource resolves teacher names from a fixed map, falling back to
// another IdentitySource for ids it does not list.
//
// The YAML file maps ids to names:
//
//	"28@learn.staging.concord.org": Michigan J. Frog
//	anonymous: Anonymous
type DirectorySource struct {
	names    map[string]string
	fallback IdentitySource
}

// NewDirectorySource creates a directory over names.
func NewDirectorySource(names map[string]string) *DirectorySource {
	cleaned := make(map[string]string, len(names))
	for id, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			cleaned[strings.TrimSpace(id)] = name
		}
	}
	return &DirectorySource{names: cleaned}
}

// LoadDirectory reads a YAML directory file.
func LoadDirectory(path string) (*DirectorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read teacher directory: %w", err)
	}
	names := map[string]string{}
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse teacher directory %s: %w", path, err)
	}
	return NewDirectorySource(names), nil
}

// WithFallback returns a copy of the directory that consults next for
// unlisted ids. The name map is shared.
func (d *DirectorySource) WithFallback(next IdentitySource) *DirectorySource {
	return &DirectorySource{names: d.names, fallback: next}
}

// Len returns the number of listed teachers.
func (d *DirectorySource) Len() int { return len(d.names) }

// TeacherName implements IdentitySource.
func (d *DirectorySource) TeacherName(ctx context.Context, id string) (string, error) {
	if name, ok := d.names[id]; ok {
		return name, nil
	}
	if d.fallback != nil {
		return d.fallback.TeacherName(ctx, id)
	}
	return "", fmt.Errorf("%w: teacher %q not in directory", ErrNotFound, id)
}
