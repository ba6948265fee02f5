package domain

import (
	"fmt"
	"time"
)

// RemoteFile is a file stored in the remote document collection.
// Identity is the filename, unique within the bucket. Files are never
// mutated in place; re-uploading a name replaces the object.
type RemoteFile struct {
	// Name is the filename, the identity key within the bucket.
	Name string

	// Size is the object size in bytes, when the remote reports it.
	Size int64

	// UpdatedAt is the last modification time, when the remote reports it.
	UpdatedAt time.Time
}

// DocumentUnit is the normalised output of a format extractor for one
// logical sub-unit of a source file: a PDF page, a slide, a table row,
// or a whole document for formats without finer structure.
type DocumentUnit struct {
	// SourceFile is the local filename the unit was extracted from.
	SourceFile string

	// PageOrRow identifies the sub-unit within the file ("page 3",
	// "sheet Sheet1 table 1 row 2"). Empty for whole-file units.
	PageOrRow string

	// Text is the extracted content. Always non-empty UTF-8; extractors
	// drop empty sub-units instead of emitting blank text.
	Text string
}

// Locator returns the attribution key carried through chunking to
// answer citations.
func (u DocumentUnit) Locator() string {
	if u.PageOrRow == "" {
		return u.SourceFile
	}
	return fmt.Sprintf("%s - %s", u.SourceFile, u.PageOrRow)
}

// Chunk is a bounded contiguous span of a DocumentUnit's text, the unit
// of embedding and storage.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// SourceFile is the local filename the chunk traces back to.
	SourceFile string

	// Locator attributes the chunk to its source sub-unit for citations.
	Locator string

	// Text is the chunk content, at most the configured maximum size.
	Text string

	// Position is the ordinal position within the unit's chunk sequence.
	Position int
}

// EmbeddedChunk pairs a chunk with its vector representation. The
// dimension is constant across a whole index; mixing embedding
// providers without a full rebuild corrupts similarity search.
type EmbeddedChunk struct {
	Chunk

	// Vector is the embedding, of the index's fixed dimension.
	Vector []float32
}

// IndexManifest records how a persisted index was built. The embedding
// identity fields let the query path detect provider drift instead of
// silently degrading similarity search.
type IndexManifest struct {
	// Provider names the embedding backend ("ollama", "openai").
	Provider string `json:"provider"`

	// Model is the embedding model the index was built with.
	Model string `json:"model"`

	// Dimensions is the vector size shared by every chunk in the index.
	Dimensions int `json:"dimensions"`

	// ChunkCount is the number of embedded chunks stored.
	ChunkCount int `json:"chunk_count"`

	// BuiltAt is when the rebuild completed.
	BuiltAt time.Time `json:"built_at"`
}

// Matches reports whether an embedding service identity is compatible
// with the index this manifest describes.
func (m IndexManifest) Matches(provider, model string, dimensions int) bool {
	return m.Provider == provider && m.Model == model && m.Dimensions == dimensions
}

// SearchResult is a similarity search hit.
type SearchResult struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity against the query vector.
	Score float64
}

// Answer is the result of a retrieval-augmented query.
type Answer struct {
	// Text is the LLM's answer.
	Text string

	// Sources are the deduplicated locators of the chunks forwarded as
	// context, in retrieval order, for citation display.
	Sources []string
}

// SyncReport describes one reconciliation of the remote collection
// against the local cache.
type SyncReport struct {
	// Downloaded lists filenames fetched from the remote store.
	Downloaded []string

	// Removed lists local filenames deleted because the remote no
	// longer has them.
	Removed []string

	// Failed lists filenames whose download failed. Failures are
	// per-file and never abort the rest of the sync.
	Failed []string

	// Changed reports whether drift was detected (or no index existed),
	// i.e. whether a rebuild was triggered.
	Changed bool

	// RebuildError holds the rebuild failure, if the triggered rebuild
	// did not complete. Kept separate from the sync outcome so a
	// rebuild failure is never silently swallowed.
	RebuildError error

	// StartedAt and FinishedAt bound the sync run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// SyncRun is the persisted record of a sync, kept in the catalog for
// the status surface.
type SyncRun struct {
	ID           int64
	StartedAt    time.Time
	FinishedAt   time.Time
	Downloaded   int
	Removed      int
	Failed       int
	Changed      bool
	RebuildError string
}

// UploadRecord is the catalog entry written when an admin uploads a
// document to the remote bucket.
type UploadRecord struct {
	Filename   string
	PublicURL  string
	UploadedAt time.Time
}
