package table

import (
	"strings"

	"github.com/spf13/cast"
)

// Infer creates a Table from textual cells. A column is numeric when
// every non-empty cell parses as a number, logical when every non-empty
// cell is a boolean literal, and text otherwise. Columns without any
// values are text. Empty cells become nil.
func Infer(header []string, rows [][]string) *Table {
	res := &Table{
		Columns: make([]Column, len(header)),
		Rows:    make([][]any, len(rows)),
	}
	for i := range rows {
		res.Rows[i] = make([]any, len(header))
	}

	for j, name := range header {
		typ := columnType(rows, j)
		res.Columns[j] = Column{Name: name, Type: typ}
		for i, row := range rows {
			res.Rows[i][j] = convert(cell(row, j), typ)
		}
	}
	return res
}

func cell(row []string, j int) string {
	if j >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[j])
}

func columnType(rows [][]string, j int) Type {
	numeric, logical, seen := true, true, false
	for _, row := range rows {
		s := cell(row, j)
		if s == "" {
			continue
		}
		seen = true
		if numeric && !isNumber(s) {
			numeric = false
		}
		if logical && !isBool(s) {
			logical = false
		}
		if !numeric && !logical {
			return Text
		}
	}

	switch {
	case !seen:
		return Text
	case numeric:
		return Numeric
	case logical:
		return Logical
	default:
		return Text
	}
}

func isNumber(s string) bool {
	// 'NaN' and 'Inf' are text in occurrence data
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "nan", "inf", "infinity":
		return false
	}
	_, err := cast.ToFloat64E(s)
	return err == nil
}

// isBool accepts boolean literals only, '1' and '0' are numbers.
func isBool(s string) bool {
	switch s {
	case "true", "false", "TRUE", "FALSE", "True", "False", "T", "F":
		return true
	}
	return false
}

func convert(s string, typ Type) any {
	if s == "" {
		return nil
	}
	switch typ {
	case Numeric:
		return cast.ToFloat64(s)
	case Logical:
		return cast.ToBool(s)
	default:
		return s
	}
}
