// Package table extracts text from spreadsheets and delimited files.
//
// Tables are flattened column by column: each column becomes one line
// holding its header followed by every non-empty value in row order,
// so a column's vocabulary stays together in the same chunk.
package table

import "strings"

// formatColumns renders rows with the first row as the header. Columns
// without a header are named by position.
func formatColumns(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	header := rows[0]
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var b strings.Builder
	for col := range width {
		name := ""
		if col < len(header) {
			name = strings.TrimSpace(header[col])
		}
		if name == "" {
			name = columnName(col)
		}

		values := make([]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if col >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[col]); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 && col >= len(header) {
			continue
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(name)
		b.WriteString(":")
		if len(values) > 0 {
			b.WriteByte(' ')
			b.WriteString(strings.Join(values, " "))
		}
	}
	return b.String()
}

// columnName returns the spreadsheet-style name for a zero-based column.
func columnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}
