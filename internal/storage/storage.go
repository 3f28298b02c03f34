// Package storage implements the persistence gateway for campaign state.
//
// The contract is deliberately coarse: load the entire campaign snapshot,
// replace the entire campaign snapshot. No partial writes, no versioning.
// Callers must treat read-mutate-write as a critical section and
// serialize it (see internal/pkg/distlock). Note that locking per
// campaign id protects a campaign against its own concurrent writers;
// because Save replaces the whole snapshot, fully isolating unrelated
// campaigns from each other requires a single global lock key.
package storage

import (
	"context"

	"github.com/ignite/phishing-trainer/internal/domain"
)

// Snapshot is the full at-rest state: campaigns keyed by id.
type Snapshot map[string]*domain.Campaign

// Store is the persistence gateway consumed by the services.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the current snapshot. A missing backing file or empty
	// table yields an empty, non-nil snapshot.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the entire snapshot. A failed Save means nothing was
	// committed; callers must not acknowledge success to the end user.
	Save(ctx context.Context, snap Snapshot) error
}
