// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reportdata

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedModuleID is returned for a module reference that is not of
	// the form "<type>: <id>". It aborts the build.
	ErrMalformedModuleID = errors.New("malformed module id")

	// ErrInvalidContentExport is returned when the authoring service answers
	// with a body that is not a JSON object. It aborts the build.
	ErrInvalidContentExport = errors.New("invalid content export")

	// ErrModuleUnavailable marks a module whose export could not be fetched.
	// The builder treats it as an unresolved reference, never as a failure.
	ErrModuleUnavailable = errors.New("module unavailable")

	// ErrInvalidEvent is wrapped by every InvalidEventError.
	ErrInvalidEvent = errors.New("invalid raw event")
)

// InvalidEventError describes a raw event record that cannot be ingested.
type InvalidEventError struct {
	Index  int    // position in the raw event list
	ID     string // raw event id, if present
	Reason string
}

func (e *InvalidEventError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%v at index %d (id %s): %s", ErrInvalidEvent, e.Index, e.ID, e.Reason)
	}
	return fmt.Sprintf("%v at index %d: %s", ErrInvalidEvent, e.Index, e.Reason)
}

func (e *InvalidEventError) Unwrap() error {
	return ErrInvalidEvent
}

// IsFatal reports whether err must abort a build rather than degrade it.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrModuleUnavailable)
}
