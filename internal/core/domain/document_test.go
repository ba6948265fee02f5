package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentUnitLocator(t *testing.T) {
	tests := []struct {
		name string
		unit DocumentUnit
		want string
	}{
		{
			name: "page unit",
			unit: DocumentUnit{SourceFile: "syllabus.pdf", PageOrRow: "page 3"},
			want: "syllabus.pdf - page 3",
		},
		{
			name: "sheet row unit",
			unit: DocumentUnit{SourceFile: "faculty.xlsx", PageOrRow: "sheet Sheet1 table 1 row 2"},
			want: "faculty.xlsx - sheet Sheet1 table 1 row 2",
		},
		{
			name: "whole file unit",
			unit: DocumentUnit{SourceFile: "notes.txt"},
			want: "notes.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.unit.Locator())
		})
	}
}

func TestIndexManifestMatches(t *testing.T) {
	m := IndexManifest{Provider: "ollama", Model: "nomic-embed-text", Dimensions: 768}

	assert.True(t, m.Matches("ollama", "nomic-embed-text", 768))
	assert.False(t, m.Matches("openai", "nomic-embed-text", 768))
	assert.False(t, m.Matches("ollama", "all-minilm", 768))
	assert.False(t, m.Matches("ollama", "nomic-embed-text", 384))
}
