package table_test

import (
	"testing"

	"github.com/gnames/occdl/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *table.Table {
	header := []string{"id", "data_resource_uid", "latitude", "zeroCoordinates", "el874"}
	rows := [][]string{
		{"a1", "dr5", "59.33", "false", "600"},
		{"a2", "dr5", "", "true", "612.5"},
		{"a3", "dr7", "-12", "", ""},
	}
	return table.Infer(header, rows)
}

func TestInfer(t *testing.T) {
	tbl := sampleTable()
	require.Equal(t, 3, tbl.Len())

	tests := []struct {
		name string
		typ  table.Type
	}{
		{"id", table.Text},
		{"data_resource_uid", table.Text},
		{"latitude", table.Numeric},
		{"zeroCoordinates", table.Logical},
		{"el874", table.Numeric},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.name, tbl.Columns[i].Name)
		assert.Equal(t, tt.typ, tbl.Columns[i].Type, tt.name)
	}

	v, ok := tbl.Value(0, "latitude")
	require.True(t, ok)
	assert.Equal(t, 59.33, v)

	v, _ = tbl.Value(1, "latitude")
	assert.Nil(t, v, "empty cell is missing value")

	v, _ = tbl.Value(1, "zeroCoordinates")
	assert.Equal(t, true, v)

	_, ok = tbl.Value(10, "latitude")
	assert.False(t, ok)
	_, ok = tbl.Value(0, "nope")
	assert.False(t, ok)
}

func TestInferEdgeCases(t *testing.T) {
	tests := []struct {
		msg  string
		vals []string
		typ  table.Type
	}{
		{"all empty", []string{"", ""}, table.Text},
		{"mixed numbers and text", []string{"1", "one"}, table.Text},
		{"zeros and ones are numbers", []string{"0", "1"}, table.Numeric},
		{"NaN is text", []string{"NaN", "1"}, table.Text},
		{"booleans in capitals", []string{"TRUE", "FALSE"}, table.Logical},
		{"short booleans", []string{"T", "F", "true"}, table.Logical},
		{"ones mixed with booleans", []string{"1", "true"}, table.Text},
		{"t and f are text", []string{"t", "f"}, table.Text},
		{"negative and exponent", []string{"-1.5", "2e3"}, table.Numeric},
	}

	for _, tt := range tests {
		rows := make([][]string, len(tt.vals))
		for i, v := range tt.vals {
			rows[i] = []string{v}
		}
		tbl := table.Infer([]string{"col"}, rows)
		assert.Equal(t, tt.typ, tbl.Columns[0].Type, tt.msg)
	}
}

func TestInferMixedBoolKeepsText(t *testing.T) {
	tbl := table.Infer([]string{"flag"}, [][]string{{"1"}, {"true"}, {"0"}})
	v, _ := tbl.Value(0, "flag")
	assert.Equal(t, "1", v)
	v, _ = tbl.Value(1, "flag")
	assert.Equal(t, "true", v)
}

func TestInferShortRows(t *testing.T) {
	tbl := table.Infer([]string{"a", "b"}, [][]string{{"1"}})
	require.Equal(t, 1, tbl.Len())
	v, _ := tbl.Value(0, "b")
	assert.Nil(t, v)
}

func TestRecordAndFilter(t *testing.T) {
	tbl := sampleTable()
	rec := tbl.Record(2)
	assert.Equal(t, "dr7", rec["data_resource_uid"])
	assert.Equal(t, -12.0, rec["latitude"])

	res := tbl.Filter(func(rec map[string]any) bool {
		return rec["data_resource_uid"] == "dr5"
	})
	assert.Equal(t, 2, res.Len())
	assert.Equal(t, 3, tbl.Len())
}

func TestRenameIdempotent(t *testing.T) {
	layers := map[string]string{"el874": "precipitationAnnual"}
	fields := map[string]string{
		"data_resource_uid": "dataResourceUid",
		"latitude":          "decimalLatitude",
		"zeroCoordinates":   "zeroCoordinates",
	}

	tbl := sampleTable()
	tbl.Rename(layers)
	tbl.Rename(fields)
	first := tbl.Names()
	assert.Equal(t,
		[]string{"id", "dataResourceUid", "decimalLatitude",
			"zeroCoordinates", "precipitationAnnual"},
		first)

	tbl.Rename(layers)
	tbl.Rename(fields)
	assert.Equal(t, first, tbl.Names())
}

func TestRenameChained(t *testing.T) {
	// a name that is already a target is never renamed further
	tbl := table.Infer([]string{"b"}, nil)
	tbl.Rename(map[string]string{"a": "b", "b": "c"})
	assert.Equal(t, []string{"b"}, tbl.Names())
}

func TestRenameCollision(t *testing.T) {
	tbl := table.Infer([]string{"latitude", "decimalLatitude"}, nil)
	tbl.Rename(map[string]string{"latitude": "decimalLatitude"})
	assert.Equal(t, []string{"latitude", "decimalLatitude"}, tbl.Names())
}

func TestDrop(t *testing.T) {
	tbl := sampleTable()
	tbl.Drop("el874", "id", "missing")
	assert.Equal(t,
		[]string{"data_resource_uid", "latitude", "zeroCoordinates"},
		tbl.Names())
	for _, row := range tbl.Rows {
		assert.Len(t, row, 3)
	}
	v, _ := tbl.Value(0, "zeroCoordinates")
	assert.Equal(t, false, v)
}

func TestStrings(t *testing.T) {
	tbl := table.Infer(
		[]string{"name", "lat", "flag"},
		[][]string{{"Bubo bubo", "59.50", "TRUE"}, {"", "1e3", ""}},
	)
	assert.Equal(t, []string{"Bubo bubo", "59.5", "true"}, tbl.Strings(0))
	assert.Equal(t, []string{"", "1000", ""}, tbl.Strings(1))
}
