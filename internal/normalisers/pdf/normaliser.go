// Package pdf extracts text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/polyglot/internal/core/domain"
	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
	"github.com/custodia-labs/polyglot/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.TextExtractor = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Formats returns the formats this normaliser handles.
func (n *Normaliser) Formats() []domain.FileFormat {
	return []domain.FileFormat{domain.FormatPDF}
}

// Extract returns the text of every page, pages separated by a newline.
// Pages that cannot be decoded are skipped; a file with no readable page
// is reported as corrupt.
func (n *Normaliser) Extract(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: pdf: %v", domain.ErrCorruptFile, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", domain.ErrCorruptFile, err)
	}

	total := reader.NumPage()
	pages := make([]string, 0, total)
	var failed int
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			failed++
			logger.Debug("pdf: page %d: %v", i, err)
			continue
		}
		pages = append(pages, strings.TrimSpace(content))
	}

	if total > 0 && failed == total {
		return "", fmt.Errorf("%w: pdf: no readable pages", domain.ErrCorruptFile)
	}
	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}
