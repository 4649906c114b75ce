// Package table provides the typed in-memory table that holds
// occurrence records. It is a pure package.
package table

import (
	"fmt"
	"slices"
	"strconv"
)

// Type is the inferred type of a column.
type Type int

const (
	Text Type = iota
	Numeric
	Logical
)

// String returns the name of the type.
func (t Type) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Logical:
		return "logical"
	default:
		return "text"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Column describes one column of a table.
type Column struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Table is an ordered sequence of rows. Every row has one value per
// column. Values are float64 for numeric columns, bool for logical
// columns, string for text columns, and nil for missing values.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Names returns column names in order.
func (t *Table) Names() []string {
	res := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		res[i] = c.Name
	}
	return res
}

// ColumnIndex returns the position of a column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Value returns the value at the given row and column.
func (t *Table) Value(row int, name string) (any, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return nil, false
	}
	return t.Rows[row][idx], true
}

// Record returns a row as a map from column name to value.
func (t *Table) Record(row int) map[string]any {
	res := make(map[string]any, len(t.Columns))
	for i, c := range t.Columns {
		res[c.Name] = t.Rows[row][i]
	}
	return res
}

// Filter returns a new table with rows for which keep returns true.
// Rows are shared with the original table.
func (t *Table) Filter(keep func(rec map[string]any) bool) *Table {
	res := &Table{Columns: slices.Clone(t.Columns)}
	for i := range t.Rows {
		if keep(t.Record(i)) {
			res.Rows = append(res.Rows, t.Rows[i])
		}
	}
	return res
}

// Rename changes column names according to dict. Names that are not in
// dict, and names that already are values of dict, stay unchanged, so
// applying the same dictionary twice gives the same result.
// A column is not renamed if the new name is taken by another column.
func (t *Table) Rename(dict map[string]string) {
	targets := make(map[string]struct{}, len(dict))
	for _, v := range dict {
		targets[v] = struct{}{}
	}
	taken := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		taken[c.Name] = struct{}{}
	}

	for i, c := range t.Columns {
		if _, ok := targets[c.Name]; ok {
			continue
		}
		n, ok := dict[c.Name]
		if !ok || n == "" || n == c.Name {
			continue
		}
		if _, ok := taken[n]; ok {
			continue
		}
		delete(taken, c.Name)
		taken[n] = struct{}{}
		t.Columns[i].Name = n
	}
}

// Drop removes columns with given names.
func (t *Table) Drop(names ...string) {
	var keep []int
	for i, c := range t.Columns {
		if !slices.Contains(names, c.Name) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.Columns) {
		return
	}

	cols := make([]Column, len(keep))
	for i, k := range keep {
		cols[i] = t.Columns[k]
	}
	for r, row := range t.Rows {
		nrow := make([]any, len(keep))
		for i, k := range keep {
			nrow[i] = row[k]
		}
		t.Rows[r] = nrow
	}
	t.Columns = cols
}

// Strings returns a row as text. Missing values are empty strings and
// numbers use the shortest exact representation.
func (t *Table) Strings(row int) []string {
	res := make([]string, len(t.Columns))
	for i, v := range t.Rows[row] {
		switch val := v.(type) {
		case nil:
		case float64:
			res[i] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			res[i] = strconv.FormatBool(val)
		case string:
			res[i] = val
		default:
			res[i] = fmt.Sprint(val)
		}
	}
	return res
}
