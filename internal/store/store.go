package store

import (
	"context"

	"blogcore/internal/core"
)

// ContentStore is the persistence contract the moderation core runs on. Every
// mutation is a single conditional write: the update only lands if the row
// still carries the expected version, so concurrent transitions cannot drop
// each other's changes.
type ContentStore interface {
	// Ownership resolves a resource by its kind-specific ref (permalink for
	// blogs and categories, numeric id for comments) in one lookup.
	Ownership(ctx context.Context, kind core.Kind, ref string) (core.Ownership, error)

	// ApplyTransition writes patch iff the row version still equals
	// expectedVersion, bumping the version. Returns core.ErrConflict when the
	// guard fails and the row still exists, core.ErrNotFound otherwise.
	ApplyTransition(ctx context.Context, kind core.Kind, id, expectedVersion uint, patch core.Patch) error

	// Delete removes the row under the same version guard. Irreversible.
	Delete(ctx context.Context, kind core.Kind, id, expectedVersion uint) error

	// Get loads the full record for a resolved resource.
	Get(ctx context.Context, kind core.Kind, id uint) (any, error)
}
