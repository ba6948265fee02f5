package driven

import (
	"github.com/campus-labs/deptchat/internal/core/domain"
)

// Splitter divides document units into bounded, overlapping chunks
// suitable for embedding. Source file and locator propagate from the
// parent unit unchanged; chunking never invents new attribution.
type Splitter interface {
	// Split chunks every unit's text. A unit shorter than the
	// configured maximum yields exactly one chunk identical to its
	// source text.
	Split(units []domain.DocumentUnit) []domain.Chunk
}
