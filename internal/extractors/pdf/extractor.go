// Package pdf provides the PDF extractor backed by MuPDF.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"pdf"}
}

// Extract produces one unit per page, 1-based. Pages without text are
// skipped.
func (e *Extractor) Extract(_ context.Context, data []byte, filename string) ([]domain.DocumentUnit, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%s: open pdf: %w", filename, domain.ErrInvalidInput)
	}
	defer doc.Close()

	var units []domain.DocumentUnit
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return nil, fmt.Errorf("%s: page %d: %w", filename, page+1, domain.ErrInvalidInput)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		units = append(units, domain.DocumentUnit{
			SourceFile: filename,
			PageOrRow:  fmt.Sprintf("page %d", page+1),
			Text:       text,
		})
	}

	return units, nil
}
