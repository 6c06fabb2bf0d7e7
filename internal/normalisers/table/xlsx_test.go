package table

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// buildWorkbook writes rows to the named sheets of a new workbook.
// The default sheet is renamed to the first sheet name.
func buildWorkbook(t *testing.T, sheets []string, rows map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, name := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestXLSX_Formats(t *testing.T) {
	assert.Equal(t, []domain.FileFormat{domain.FormatXLSX}, NewXLSX().Formats())
}

func TestXLSX_SingleSheet(t *testing.T) {
	data := buildWorkbook(t, []string{"Urlaub"}, map[string][][]any{
		"Urlaub": {
			{"Name", "Tage"},
			{"Anna", 25},
			{"Jonas", 30},
		},
	})

	text, err := NewXLSX().Extract(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, "Name: Anna Jonas\nTage: 25 30", text)
}

func TestXLSX_MultipleSheets(t *testing.T) {
	data := buildWorkbook(t, []string{"People", "Empty", "Teams"}, map[string][][]any{
		"People": {{"Name"}, {"Ana"}},
		"Teams":  {{"Team"}, {"Security"}},
	})

	text, err := NewXLSX().Extract(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, "Sheet People\nName: Ana\n\nSheet Teams\nTeam: Security", text)
}

func TestXLSX_InvalidData(t *testing.T) {
	_, err := NewXLSX().Extract(context.Background(), []byte("not a workbook"))

	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}
