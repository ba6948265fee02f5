// Package slides provides the PowerPoint extractor.
package slides

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// slidePattern matches slide part names inside a PPTX archive.
var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Extractor handles PPTX presentations. Legacy .ppt files are claimed
// so they surface as extraction failures rather than being ignored.
type Extractor struct{}

// New creates a new PowerPoint extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"ppt", "pptx"}
}

// Extract produces one unit per slide, in slide order. Slides without
// text are skipped.
func (e *Extractor) Extract(_ context.Context, data []byte, filename string) ([]domain.DocumentUnit, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: open archive: %w", filename, domain.ErrInvalidInput)
	}

	type slidePart struct {
		number int
		file   *zip.File
	}

	var parts []slidePart
	for _, file := range reader.File {
		m := slidePattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts = append(parts, slidePart{number: number, file: file})
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%s: no slides: %w", filename, domain.ErrInvalidInput)
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].number < parts[j].number })

	var units []domain.DocumentUnit
	for _, part := range parts {
		text, err := slideText(part.file)
		if err != nil {
			return nil, fmt.Errorf("%s: slide %d: %w", filename, part.number, err)
		}
		if text == "" {
			continue
		}
		units = append(units, domain.DocumentUnit{
			SourceFile: filename,
			PageOrRow:  fmt.Sprintf("slide %d", part.number),
			Text:       text,
		})
	}

	return units, nil
}

// slideText collects the text runs (a:t elements) of one slide,
// one line per run.
func slideText(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", domain.ErrInvalidInput
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", domain.ErrInvalidInput
	}

	decoder := xml.NewDecoder(bytes.NewReader(content))
	var lines []string
	inTextRun := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inTextRun = false
			}
		case xml.CharData:
			if inTextRun {
				if text := strings.TrimSpace(string(t)); text != "" {
					lines = append(lines, text)
				}
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
