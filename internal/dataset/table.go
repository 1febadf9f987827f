package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an immutable raw tabular dataset decoded from an upload.
// Cells are kept as strings; the empty string means null. Type coercion
// happens downstream in the aggregation layer, not here.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// DuplicateColumnError indicates two header cells collapsed to the same
// name after trimming. Which one would win is undefined, so the table is
// rejected outright.
type DuplicateColumnError struct {
	Name string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column %q after trimming header names", e.Name)
}

// NewTable builds a Table from a raw header and rows. Header names are
// whitespace-trimmed and must be unique post-trim. Short rows are padded
// to the header width so every row indexes safely.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	trimmed := make([]string, len(columns))
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		name := strings.TrimSpace(c)
		if seen[name] {
			return nil, &DuplicateColumnError{Name: name}
		}
		seen[name] = true
		trimmed[i] = name
	}
	ncol := len(trimmed)
	norm := make([][]string, 0, len(rows))
	for _, r := range rows {
		if len(r) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, r)
			r = tmp
		} else if len(r) > ncol {
			r = r[:ncol]
		}
		norm = append(norm, r)
	}
	return &Table{Columns: trimmed, Rows: norm}, nil
}

// ColumnIndex returns the position of a column, or -1 if absent.
// Lookup is case-sensitive over post-trim names.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Cell returns the trimmed cell value at (row, column index).
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// DistinctValues enumerates the sorted distinct non-null values of a
// column. Used to populate filter facet options.
func (t *Table) DistinctValues(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	seen := make(map[string]bool)
	for i := range t.Rows {
		v := t.Cell(i, idx)
		if v != "" {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
