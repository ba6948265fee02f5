package flatfile

import (
	"fmt"
	"math"
	"sort"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an immutable in-memory snapshot loaded from disk, searched
// by brute-force cosine similarity. Corpora here are small enough (a
// department's documents) that approximate indexes are not worth the
// extra moving parts.
type Index struct {
	manifest domain.IndexManifest
	chunks   []domain.Chunk
	vectors  [][]float32
}

// Manifest returns the build metadata.
func (ix *Index) Manifest() domain.IndexManifest {
	return ix.manifest
}

// Len returns the number of embedded chunks.
func (ix *Index) Len() int {
	return len(ix.chunks)
}

// Search returns the k nearest chunks by cosine similarity, best first.
func (ix *Index) Search(query []float32, k int) ([]domain.SearchResult, error) {
	if len(query) != ix.manifest.Dimensions {
		return nil, fmt.Errorf("query dimension %d, index dimension %d: %w",
			len(query), ix.manifest.Dimensions, domain.ErrEmbeddingMismatch)
	}
	if k <= 0 {
		k = 5
	}

	scores := make([]float64, len(ix.vectors))
	for i, v := range ix.vectors {
		scores[i] = cosine(query, v)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	if k > len(order) {
		k = len(order)
	}
	results := make([]domain.SearchResult, 0, k)
	for _, i := range order[:k] {
		results = append(results, domain.SearchResult{
			Chunk: ix.chunks[i],
			Score: scores[i],
		})
	}
	return results, nil
}

// cosine computes cosine similarity between two vectors of equal length.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
