package table

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// Ensure XLSXNormaliser implements the interface.
var _ driven.TextExtractor = (*XLSXNormaliser)(nil)

// XLSXNormaliser handles Excel workbooks.
type XLSXNormaliser struct{}

// NewXLSX creates a new XLSX normaliser.
func NewXLSX() *XLSXNormaliser {
	return &XLSXNormaliser{}
}

// Formats returns the formats this normaliser handles.
func (n *XLSXNormaliser) Formats() []domain.FileFormat {
	return []domain.FileFormat{domain.FormatXLSX}
}

// Extract flattens every non-empty sheet column by column. When the
// workbook has more than one sheet each block is headed by the sheet name.
func (n *XLSXNormaliser) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: xlsx: %v", domain.ErrCorruptFile, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	blocks := make([]string, 0, len(sheets))
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Debug("xlsx: sheet %q: %v", sheet, err)
			continue
		}
		text := formatColumns(rows)
		if text == "" {
			continue
		}
		if len(sheets) > 1 {
			text = "Sheet " + sheet + "\n" + text
		}
		blocks = append(blocks, text)
	}
	return strings.Join(blocks, "\n\n"), nil
}
