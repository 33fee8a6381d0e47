// Package dataset provides the raw table type shared by every data source and
// flow. Cells are untyped strings; coercion happens in the feature layer.
package dataset

import (
	"github.com/rotisserie/eris"
)

// Table is an ordered set of named columns over row-major string cells.
// It is built once at the data-access boundary and treated as immutable:
// mutating operations return copies.
type Table struct {
	cols []string
	rows [][]string
}

// New builds a Table, validating that every row matches the header width.
func New(cols []string, rows [][]string) (Table, error) {
	for i, r := range rows {
		if len(r) != len(cols) {
			return Table{}, eris.Errorf("dataset: row %d has %d cells, header has %d", i, len(r), len(cols))
		}
	}
	return Table{cols: cols, rows: rows}, nil
}

// Columns returns the ordered column names.
func (t Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// NumRows returns the row count.
func (t Table) NumRows() int { return len(t.rows) }

// NumCols returns the column count.
func (t Table) NumCols() int { return len(t.cols) }

// Col returns the index of the named column.
func (t Table) Col(name string) (int, bool) {
	for i, c := range t.cols {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns the values of the named column, or nil if absent.
func (t Table) Column(name string) []string {
	idx, ok := t.Col(name)
	if !ok {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out
}

// Row returns the i-th row.
func (t Table) Row(i int) []string { return t.rows[i] }

// DropColumns returns a copy without the named columns. Absent names are
// silently ignored.
func (t Table) DropColumns(names ...string) Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	var keep []int
	var cols []string
	for i, c := range t.cols {
		if !drop[c] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}

	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		nr := make([]string, len(keep))
		for j, idx := range keep {
			nr[j] = r[idx]
		}
		rows[i] = nr
	}
	return Table{cols: cols, rows: rows}
}

// Filter returns a copy holding only the rows for which keep returns true.
func (t Table) Filter(keep func(row []string) bool) Table {
	var rows [][]string
	for _, r := range t.rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return Table{cols: t.cols, rows: rows}
}

// WithColumn returns a copy with an extra column appended. Existing columns
// are never removed or reordered.
func (t Table) WithColumn(name string, vals []string) (Table, error) {
	if len(vals) != len(t.rows) {
		return Table{}, eris.Errorf("dataset: column %s has %d values, table has %d rows", name, len(vals), len(t.rows))
	}
	if _, ok := t.Col(name); ok {
		return Table{}, eris.Errorf("dataset: column %s already exists", name)
	}

	cols := append(t.Columns(), name)
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		nr := make([]string, 0, len(r)+1)
		nr = append(nr, r...)
		nr = append(nr, vals[i])
		rows[i] = nr
	}
	return Table{cols: cols, rows: rows}, nil
}
