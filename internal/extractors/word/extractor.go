// Package word provides the Word document extractor.
package word

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents. Legacy .doc files are claimed too
// so they reach this extractor instead of being silently ignored; their
// binary container cannot be opened as a ZIP archive and fails like any
// other corrupt file.
type Extractor struct{}

// New creates a new Word extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"doc", "docx"}
}

// Extract produces exactly one unit for the whole file: paragraphs
// joined with newlines, followed by each table's rows rendered as
// comma-joined cell text.
func (e *Extractor) Extract(_ context.Context, data []byte, filename string) ([]domain.DocumentUnit, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: open archive: %w", filename, domain.ErrInvalidInput)
	}

	content, err := extractDocumentText(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	return []domain.DocumentUnit{{
		SourceFile: filename,
		Text:       content,
	}}, nil
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		return renderDocumentXML(content)
	}
	return "", domain.ErrInvalidInput
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

// renderDocumentXML renders paragraphs first, then table rows.
func renderDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", domain.ErrInvalidInput
	}

	var result strings.Builder

	for _, para := range doc.Body.Paragraphs {
		if text := paragraphText(para); text != "" {
			result.WriteString(text)
			result.WriteString("\n")
		}
	}

	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			empty := true
			for _, cell := range row.Cells {
				text := cellText(cell)
				if text != "" {
					empty = false
				}
				cells = append(cells, text)
			}
			if empty {
				continue
			}
			result.WriteString(strings.Join(cells, ", "))
			result.WriteString("\n")
		}
	}

	return result.String(), nil
}

func paragraphText(para paragraph) string {
	var b strings.Builder
	for _, r := range para.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

// cellText flattens a cell's paragraphs into one line.
func cellText(cell tableCell) string {
	parts := make([]string, 0, len(cell.Paragraphs))
	for _, para := range cell.Paragraphs {
		if text := paragraphText(para); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.ReplaceAll(strings.Join(parts, " "), "\n", " ")
}
