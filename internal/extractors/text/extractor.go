// Package text provides the plain text extractor.
package text

import (
	"context"
	"strings"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"txt"}
}

// Extract returns the whole trimmed file content as a single unit.
// An empty file yields zero units.
func (e *Extractor) Extract(_ context.Context, data []byte, filename string) ([]domain.DocumentUnit, error) {
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, nil
	}

	return []domain.DocumentUnit{{
		SourceFile: filename,
		Text:       content,
	}}, nil
}
