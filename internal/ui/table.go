package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."
const tableColumnGap = 2

var headerStyle = lipgloss.NewStyle().Bold(true)

// FormatRows renders a table whose first row is the header, as
// left-aligned columns. The header is bold when stdout is a color terminal.
func FormatRows(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	return formatTable(rows[0], rows[1:], ansiEnabled())
}

func formatTable(headers []string, rows [][]string, styled bool) string {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, normalizeRow(headers))
	for _, row := range rows {
		cells = append(cells, normalizeRow(row))
	}

	widths := make([]int, len(headers))
	for _, row := range cells {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var builder strings.Builder
	for r, row := range cells {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			last := i == len(row)-1 || i == len(widths)-1
			text := cell
			if !last {
				text = padding.String(cell, uint(widths[i]+tableColumnGap))
			}
			if r == 0 && styled {
				text = headerStyle.Render(text)
			}
			builder.WriteString(text)
			if last {
				break
			}
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = TruncateTableCell(cell)
	}
	return out
}

// TruncateTableCell flattens line breaks and limits the cell's visible width.
func TruncateTableCell(value string) string {
	value = normalizeTableCell(value)
	if lipgloss.Width(value) <= tableCellMaxWidth {
		return value
	}
	return truncate.StringWithTail(value, tableCellMaxWidth, tableCellEllipsis)
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}
