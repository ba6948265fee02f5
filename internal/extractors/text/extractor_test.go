package text

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{"txt"}, New().Extensions())
}

func TestExtract(t *testing.T) {
	e := New()
	ctx := context.Background()

	units, err := e.Extract(ctx, []byte("  Office hours: 9-5.\n"), "notice.txt")
	require.NoError(t, err)
	require.Len(t, units, 1)

	assert.Equal(t, "notice.txt", units[0].SourceFile)
	assert.Empty(t, units[0].PageOrRow)
	assert.Equal(t, "Office hours: 9-5.", units[0].Text)
	assert.Equal(t, "notice.txt", units[0].Locator())
}

func TestExtractEmptyFileYieldsNoUnits(t *testing.T) {
	e := New()

	units, err := e.Extract(context.Background(), []byte("   \n\t "), "empty.txt")
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestExtractDeterministic(t *testing.T) {
	e := New()
	data := []byte("The EEE department office is in Block C.")

	first, err := e.Extract(context.Background(), data, "a.txt")
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), data, "a.txt")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
