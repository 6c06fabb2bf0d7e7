package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected FileFormat
	}{
		{"report.pdf", FormatPDF},
		{"/tmp/Notes.DOCX", FormatDOCX},
		{"sheet.xlsx", FormatXLSX},
		{"data.csv", FormatCSV},
		{"readme.txt", FormatText},
		{"readme.text", FormatText},
		{"guide.md", FormatMarkdown},
		{"guide.markdown", FormatMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, err := FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestFormatFromPath_Unsupported(t *testing.T) {
	for _, path := range []string{"image.png", "archive.zip", "noext"} {
		_, err := FormatFromPath(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestAllFormats_AreValid(t *testing.T) {
	for _, f := range AllFormats() {
		assert.True(t, f.IsValid())
	}
	assert.False(t, FileFormat("png").IsValid())
}

func TestChunkID_UniquePerDocumentAndSeq(t *testing.T) {
	assert.Equal(t, "doc-1:0", ChunkID("doc-1", 0))
	assert.NotEqual(t, ChunkID("doc-1", 1), ChunkID("doc-2", 1))
	assert.NotEqual(t, ChunkID("doc-1", 1), ChunkID("doc-1", 2))
}
