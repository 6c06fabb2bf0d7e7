package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// FileFormat identifies how an uploaded file's text is extracted.
type FileFormat string

// Supported upload formats.
const (
	FormatText     FileFormat = "txt"
	FormatMarkdown FileFormat = "md"
	FormatPDF      FileFormat = "pdf"
	FormatDOCX     FileFormat = "docx"
	FormatXLSX     FileFormat = "xlsx"
	FormatCSV      FileFormat = "csv"
)

// AllFormats returns every format the extractors understand.
func AllFormats() []FileFormat {
	return []FileFormat{FormatText, FormatMarkdown, FormatPDF, FormatDOCX, FormatXLSX, FormatCSV}
}

// IsValid returns true if the format is recognised.
func (f FileFormat) IsValid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatPDF, FormatDOCX, FormatXLSX, FormatCSV:
		return true
	default:
		return false
	}
}

// String returns the format name.
func (f FileFormat) String() string {
	return string(f)
}

// FormatFromPath derives the format from a file name's extension.
func FormatFromPath(path string) (FileFormat, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "text" {
		ext = string(FormatText)
	}
	if ext == "markdown" {
		ext = string(FormatMarkdown)
	}
	format := FileFormat(ext)
	if !format.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return format, nil
}

// Document represents an ingested file.
// Documents are immutable once stored; uploading the same name replaces it.
type Document struct {
	// ID is derived from Name so re-uploads overwrite the previous version.
	ID string

	// Name is the file name used for attribution.
	Name string

	// Format is the extraction format.
	Format FileFormat

	// Language is the primary language detected from the leading text.
	// Individual chunks carry their own language.
	Language Language

	// Size is the uploaded file size in bytes.
	Size int64

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int

	// Content is the normalised extracted text. It is not persisted.
	Content string

	// IngestedAt is when the document was stored.
	IngestedAt time.Time
}

// Chunk is a retrievable span of a document's normalised text.
type Chunk struct {
	// ID is derived from (DocumentID, Seq) and is unique per document.
	ID string

	// DocumentID references the owning Document for attribution only.
	DocumentID string

	// DocumentName is the owning document's file name.
	DocumentName string

	// Seq is the chunk's position within the document, starting at 0.
	Seq int

	// Content is the chunk text.
	Content string

	// Start and End are rune offsets into the normalised document text.
	Start int
	End   int

	// Language is detected per chunk and may differ from the document's.
	Language Language

	// Confidence is the detector's confidence for Language.
	Confidence float64

	// Embedding is owned by the vector index once stored.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// ChunkID returns the stable identifier for a document's chunk.
func ChunkID(documentID string, seq int) string {
	return fmt.Sprintf("%s:%d", documentID, seq)
}

// Upload is a file handed to ingestion.
type Upload struct {
	// Name is the file name, including extension.
	Name string

	// Data is the raw file content.
	Data []byte
}
