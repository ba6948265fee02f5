// Package extractors provides format extractors that convert raw file
// bytes into normalised document units, and a registry that selects an
// extractor by file extension.
package extractors

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/campus-labs/deptchat/internal/core/ports/driven"
	"github.com/campus-labs/deptchat/internal/extractors/pdf"
	"github.com/campus-labs/deptchat/internal/extractors/sheet"
	"github.com/campus-labs/deptchat/internal/extractors/slides"
	"github.com/campus-labs/deptchat/internal/extractors/text"
	"github.com/campus-labs/deptchat/internal/extractors/word"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps a closed set of file extensions to extractors.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates a registry with the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{
		byExtension: make(map[string]driven.Extractor),
	}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExtension[strings.ToLower(ext)] = e
		}
	}
	return r
}

// NewDefaultRegistry creates a registry with all built-in extractors:
// PDF, Word, PowerPoint, spreadsheet and plain text.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		pdf.New(),
		word.New(),
		slides.New(),
		sheet.New(),
		text.New(),
	)
}

// ForFile returns the extractor for the file's extension, or false if
// the extension is not recognised.
func (r *Registry) ForFile(filename string) (driven.Extractor, bool) {
	e, ok := r.byExtension[extensionOf(filename)]
	return e, ok
}

// Recognised reports whether the filename carries a supported extension.
func (r *Registry) Recognised(filename string) bool {
	_, ok := r.byExtension[extensionOf(filename)]
	return ok
}

// Extensions returns all supported extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// extensionOf returns the lowercase extension without the dot.
func extensionOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
