package catalog

import (
	"sync/atomic"

	"career-matching-workers/internal/common/errors"
)

// Store hands out the current snapshot. Readers never block a refresh and
// keep the snapshot they were given for the whole request.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the active snapshot, or CATALOG_UNAVAILABLE before the
// first successful load.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, errors.NewCatalogUnavailableError("no catalog snapshot loaded yet")
	}
	return snap, nil
}

// Swap installs next and returns the snapshot it replaced (nil on first load).
func (s *Store) Swap(next *Snapshot) *Snapshot {
	return s.current.Swap(next)
}
