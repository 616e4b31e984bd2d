// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

package reportdata

import (
	"context"
	"sync"
	"testing"

	"github.com/tomtom215/tereport/internal/models"
)

func TestTeacherResolver(t *testing.T) {
	t.Parallel()

	identity := newFakeIdentity(map[string]string{
		"28@x":  "Michigan J. Frog",
		"blank": "   ",
	})
	r := NewTeacherResolver(identity)
	ctx := context.Background()

	tests := []struct {
		id   string
		want string
	}{
		{"28@x", "Michigan J. Frog"},
		{"28@x", "Michigan J. Frog"},
		{"29@x", models.NameNotAvailable},
		{"blank", models.NameNotAvailable},
	}
	for _, tt := range tests {
		if got := r.Resolve(ctx, tt.id); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}

	if got := identity.callsFor("28@x"); got != 1 {
		t.Errorf("lookups for 28@x = %d, want 1", got)
	}
	r.Resolve(ctx, "29@x")
	if got := identity.callsFor("29@x"); got != 1 {
		t.Errorf("lookups for 29@x = %d, want 1 (failures are memoized)", got)
	}
}

func TestTeacherResolver_NilSource(t *testing.T) {
	t.Parallel()

	r := NewTeacherResolver(nil)
	if got := r.Resolve(context.Background(), "28@x"); got != models.NameNotAvailable {
		t.Errorf("Resolve() = %q, want %q", got, models.NameNotAvailable)
	}
}

func TestTeacherResolver_Concurrent(t *testing.T) {
	t.Parallel()

	identity := newFakeIdentity(map[string]string{"28@x": "Frog"})
	r := NewTeacherResolver(identity)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := r.Resolve(context.Background(), "28@x"); got != "Frog" {
				t.Errorf("Resolve() = %q, want Frog", got)
			}
		}()
	}
	wg.Wait()

	if got := identity.callsFor("28@x"); got != 1 {
		t.Errorf("lookups = %d, want 1", got)
	}
}
