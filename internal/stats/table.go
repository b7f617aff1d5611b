package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// textTable lays out cells in columns separated by a single space. Every
// cell is padded to its column's display width.
type textTable struct {
	header []string
	rows   [][]string
	right  map[int]bool
}

func newTextTable(header ...string) *textTable {
	return &textTable{header: header, right: map[int]bool{}}
}

// alignRight marks numeric columns.
func (t *textTable) alignRight(cols ...int) *textTable {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

func (t *textTable) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *textTable) columnWidths() []int {
	n := len(t.header)
	for _, row := range t.rows {
		n = max(n, len(row))
	}
	widths := make([]int, n)
	measure := func(cells []string) {
		for i, cell := range cells {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *textTable) lines() []string {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return nil
	}
	format := func(cells []string) string {
		padded := make([]string, len(widths))
		for i, width := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			if t.right[i] {
				padded[i] = runewidth.FillLeft(cell, width)
			} else {
				padded[i] = runewidth.FillRight(cell, width)
			}
		}
		return strings.Join(padded, " ")
	}

	out := make([]string, 0, len(t.rows)+1)
	if len(t.header) > 0 {
		out = append(out, format(t.header))
	}
	for _, row := range t.rows {
		out = append(out, format(row))
	}
	return out
}

// writeTo prints the table followed by a blank line.
func (t *textTable) writeTo(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
