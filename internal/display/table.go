package display

import (
	"strings"
)

// columnGap separates columns; indent leads every rendered line.
const (
	columnGap = "  "
	indent    = "  "
)

// Table renders an aligned text grid: one label column followed by value
// columns. Built for prayer-time rows, where the first cell is a date or
// name and the rest are clock times.
type Table struct {
	headers   []string
	rows      [][]string
	highlight int // row index rendered in the accent style, -1 for none
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, highlight: -1}
}

// AddRow appends a row. Rows shorter than the header count render with
// empty trailing cells.
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow marks the 0-based row to render in the accent style,
// typically today's row.
func (t *Table) SetHighlightRow(idx int) {
	t.highlight = idx
}

// Len returns the number of data rows added so far.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render produces the formatted grid: bold headers, a dim rule, then data
// rows. The label column is left-aligned, value columns right-aligned.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := t.columnWidths()

	var sb strings.Builder
	sb.WriteString(indent + Bold(t.line(t.headers, widths)) + "\n")

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim(indent+strings.Join(rule, columnGap)) + "\n")

	for i, row := range t.rows {
		line := t.line(row, widths)
		if i == t.highlight {
			line = Accent(line)
		}
		sb.WriteString(indent + line + "\n")
	}

	return sb.String()
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

// line formats one row against the column widths, without trailing padding.
func (t *Table) line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", w-len(cell))
		if i == 0 {
			parts[i] = cell + pad
		} else {
			parts[i] = pad + cell
		}
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}
