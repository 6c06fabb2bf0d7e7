package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// Ensure CSVNormaliser implements the interface.
var _ driven.TextExtractor = (*CSVNormaliser)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVNormaliser handles comma-separated files.
type CSVNormaliser struct{}

// NewCSV creates a new CSV normaliser.
func NewCSV() *CSVNormaliser {
	return &CSVNormaliser{}
}

// Formats returns the formats this normaliser handles.
func (n *CSVNormaliser) Formats() []domain.FileFormat {
	return []domain.FileFormat{domain.FormatCSV}
}

// Extract parses the file and flattens it column by column.
// Rows may have differing field counts and stray quotes are tolerated.
func (n *CSVNormaliser) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: csv is not valid UTF-8", domain.ErrCorruptFile)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: csv: %v", domain.ErrCorruptFile, err)
		}
		rows = append(rows, record)
	}
	return formatColumns(rows), nil
}
