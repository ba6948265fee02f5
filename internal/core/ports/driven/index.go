package driven

import (
	"context"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

// IndexStore persists the vector index. The rebuild pipeline owns the
// index lifecycle exclusively; no other component writes through this
// port. The answering service only reads.
type IndexStore interface {
	// Save atomically replaces the persisted index with a new snapshot.
	// A concurrent reader observes either the previous snapshot or the
	// new one, never a partial write. A failed save leaves the previous
	// snapshot untouched.
	Save(ctx context.Context, manifest domain.IndexManifest, chunks []domain.EmbeddedChunk) error

	// Load returns the currently persisted index. Fails with
	// domain.ErrIndexNotFound if no rebuild has ever succeeded.
	Load(ctx context.Context) (VectorIndex, error)

	// Delete removes the persisted index, if any. Used when the corpus
	// becomes empty: no index is safer than a stale one.
	Delete(ctx context.Context) error

	// Exists reports whether a persisted index is present.
	Exists() bool
}

// VectorIndex is a loaded, immutable snapshot supporting similarity search.
type VectorIndex interface {
	// Manifest returns the build metadata, including the embedding
	// provider identity the index was built with.
	Manifest() domain.IndexManifest

	// Search returns the k nearest chunks to the query vector by cosine
	// similarity, best first.
	Search(query []float32, k int) ([]domain.SearchResult, error)

	// Len returns the number of embedded chunks in the snapshot.
	Len() int
}
