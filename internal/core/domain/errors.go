package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file extension no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrRemoteUnavailable indicates the remote document store cannot be
	// reached. The caller decides retry policy; sync never retries internally.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrDownloadFailed indicates a single file could not be downloaded.
	// Sync is best-effort per file, so this never aborts the remaining downloads.
	ErrDownloadFailed = errors.New("download failed")

	// ErrExtractionFailed indicates a single file could not be extracted.
	// The file is logged and skipped; the rest of the corpus proceeds.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmptyCorpus indicates the local corpus produced zero chunks.
	// Fatal for the rebuild; any persisted index is deleted so stale
	// context is never served.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrRebuildFailed indicates an index rebuild did not complete.
	// The previously persisted index remains untouched.
	ErrRebuildFailed = errors.New("rebuild failed")

	// ErrRebuildInProgress indicates another rebuild holds the index.
	// Callers should retry later.
	ErrRebuildInProgress = errors.New("rebuild in progress")

	// ErrIndexNotFound indicates no rebuild has ever succeeded.
	// Query-time callers should prompt an admin to rebuild first.
	ErrIndexNotFound = errors.New("index not found")

	// ErrEmbeddingMismatch indicates the persisted index was built with a
	// different embedding provider, model or dimension than the one
	// configured now. Surfaced as a configuration error, never ignored.
	ErrEmbeddingMismatch = errors.New("embedding provider mismatch")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
