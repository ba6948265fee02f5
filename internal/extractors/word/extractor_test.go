package word

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDOCX assembles a minimal DOCX archive around the given
// word/document.xml payload.
func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Department Handbook</w:t></w:r></w:p>
    <w:p><w:r><w:t>Welcome to the </w:t></w:r><w:r><w:t>EEE department.</w:t></w:r></w:p>
    <w:p></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Room</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Dr. Rao</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>C-204</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p></w:p></w:tc>
        <w:tc><w:p></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{"doc", "docx"}, New().Extensions())
}

func TestExtract(t *testing.T) {
	data := buildDOCX(t, sampleDocument)

	units, err := New().Extract(context.Background(), data, "handbook.docx")
	require.NoError(t, err)
	require.Len(t, units, 1)

	unit := units[0]
	assert.Equal(t, "handbook.docx", unit.SourceFile)
	assert.Empty(t, unit.PageOrRow)

	want := "Department Handbook\n" +
		"Welcome to the EEE department.\n" +
		"Name, Room\n" +
		"Dr. Rao, C-204"
	assert.Equal(t, want, unit.Text)
}

func TestExtractEmptyDocumentYieldsNoUnits(t *testing.T) {
	data := buildDOCX(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p></w:p></w:body>
</w:document>`)

	units, err := New().Extract(context.Background(), data, "blank.docx")
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestExtractCorruptFile(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("legacy binary doc"), "old.doc")
	assert.Error(t, err)
}

func TestExtractArchiveWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("unrelated.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("nothing"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = New().Extract(context.Background(), buf.Bytes(), "odd.docx")
	assert.Error(t, err)
}
