// Package splitter provides a sliding-window text chunker.
package splitter

import (
	"unicode"

	"github.com/google/uuid"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 550

// DefaultChunkOverlap is the default number of characters repeated at
// the start of each chunk after the first.
const DefaultChunkOverlap = 150

// Splitter splits document units into overlapping chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between neighbouring chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must stay strictly below chunk size for the window to advance.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split chunks every unit's text, carrying the unit's source file and
// locator onto each chunk unchanged.
func (s *Splitter) Split(units []domain.DocumentUnit) []domain.Chunk {
	var chunks []domain.Chunk

	for _, unit := range units {
		for position, text := range s.splitText(unit.Text) {
			chunks = append(chunks, domain.Chunk{
				ID:         uuid.New().String(),
				SourceFile: unit.SourceFile,
				Locator:    unit.Locator(),
				Text:       text,
				Position:   position,
			})
		}
	}

	return chunks
}

// splitText slides a window of at most chunkSize runes across the text,
// starting each chunk after the first exactly overlap runes before the
// previous chunk's end. When a window would cut mid-word, the end is
// pulled back to the nearest whitespace within the overlap region, so
// reconstruction from non-overlapping portions still holds.
func (s *Splitter) splitText(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	if n <= s.chunkSize {
		return []string{text}
	}

	estimated := n/(s.chunkSize-s.overlap) + 1
	parts := make([]string, 0, estimated)

	start := 0
	for start < n {
		end := start + s.chunkSize
		if end >= n {
			parts = append(parts, string(runes[start:n]))
			break
		}

		cut := end
		// Scan back at most overlap runes for a whitespace boundary,
		// never so far that the window stops advancing.
		limit := end - s.overlap
		if limit < start+s.overlap {
			limit = start + s.overlap
		}
		for i := end; i > limit; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}

		parts = append(parts, string(runes[start:cut]))
		start = cut - s.overlap
	}

	return parts
}
