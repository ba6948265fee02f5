package driving

import "context"

// RebuildService rebuilds the persisted vector index from the local
// corpus. Rebuilds are all-or-nothing and mutually exclusive.
type RebuildService interface {
	// Rebuild extracts, chunks, embeds and atomically swaps in a new
	// index. Returns domain.ErrRebuildInProgress if another rebuild is
	// in flight, domain.ErrEmptyCorpus if the corpus yields no chunks
	// (any persisted index is deleted), or domain.ErrRebuildFailed
	// wrapping the cause (previous index preserved).
	Rebuild(ctx context.Context) error

	// Busy reports whether a rebuild is currently in flight.
	Busy() bool
}
