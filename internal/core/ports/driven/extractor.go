package driven

import (
	"context"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

// Extractor converts raw file bytes into normalised document units.
// Extractors are pure functions of their input: no network access, and
// re-running on unchanged bytes yields identical units.
type Extractor interface {
	// Extensions returns the lowercase file extensions (without dot)
	// this extractor handles.
	Extensions() []string

	// Extract parses the file content into document units. A file whose
	// structure is unreadable returns an error; the caller logs and
	// skips it without aborting the rest of the corpus.
	Extract(ctx context.Context, data []byte, filename string) ([]domain.DocumentUnit, error)
}

// ExtractorRegistry selects an extractor by file extension from a
// closed set. Unrecognised extensions resolve to nothing.
type ExtractorRegistry interface {
	// ForFile returns the extractor for the file's extension, or false
	// if the extension is not recognised.
	ForFile(filename string) (Extractor, bool)

	// Recognised reports whether the filename carries a supported
	// extension.
	Recognised(filename string) bool

	// Extensions returns all supported extensions.
	Extensions() []string
}
