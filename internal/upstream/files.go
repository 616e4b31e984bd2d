// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tereport/internal/models"
)

// FileEventSource reads a saved log-puller export. The request is ignored.
type FileEventSource struct {
	Path string
}

// FetchEvents implements EventSource.
func (s FileEventSource) FetchEvents(ctx context.Context, _ LogRequest) ([]models.RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return decodeEvents(data)
}

// DirContentSource serves module exports saved as <type>_<id>.json, e.g.
// sequence_55.json or activity_100.json.
type DirContentSource struct {
	Dir string
}

// FileName returns the file that holds a module's export.
func (s DirContentSource) FileName(moduleType, id string) string {
	return filepath.Join(s.Dir, moduleType+"_"+id+".json")
}

// FetchModule implements ContentSource.
func (s DirContentSource) FetchModule(ctx context.Context, moduleType, id string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.ContainsAny(moduleType+id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: invalid module reference %s: %s", ErrNotFound, moduleType, id)
	}

	path := s.FileName(moduleType, id)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, path)
	}
	return json.RawMessage(data), nil
}
