package ioarchive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/pkg/errcode"
	"github.com/gnames/occdl/pkg/table"
	"github.com/gnames/occdl/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func testVocabulary() *vocab.Vocabulary {
	return &vocab.Vocabulary{
		Fields: []vocab.Field{
			{Name: "taxon_name", DwcTerm: "scientificName", DownloadName: "raw_scientificName"},
			{Name: "data_resource_uid", DownloadName: "dataResourceUid"},
			{Name: "latitude", DwcTerm: "decimalLatitude"},
			{Name: "longitude", DwcTerm: "decimalLongitude"},
			{Name: "occurrence_date", DwcTerm: "eventDate"},
		},
		Assertions: []vocab.Assertion{
			{Name: "INVALID_SCIENTIFIC_NAME", Fatal: true},
		},
		Layers: []vocab.Layer{
			{ID: "el1007", Name: "Annual Mean Temperature", Type: "Environmental"},
		},
	}
}

const dataTSV = "taxon_name\tdata_resource_uid\tlatitude\tlongitude\t" +
	"el1007\tINVALID_SCIENTIFIC_NAME\trow_key\toccurrence_date\n" +
	"Callitriche cophocarpa\tdr5\t59.33\t18.06\t6.5\tfalse\tk1\t2019-06-01\n" +
	"Callitriche cophocarpa\tdr5\t55.6\t13.0\t\ttrue\tk2\t2020-07-15\n"

func TestRead(t *testing.T) {
	path := writeZip(t, map[string]string{
		"data.csv":     dataTSV,
		"citation.csv": "Data resource ID\tCitation\tRights\ndr5\tArtportalen (2024)\tCC-BY\n",
	})

	res, err := Read(path, testVocabulary())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "Artportalen (2024)", res.Citation)

	tbl := res.Table
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{
		"scientificName", "dataResourceUid", "decimalLatitude",
		"decimalLongitude", "annualMeanTemperature", "invalidScientificName",
		"eventDate",
	}, tbl.Names())

	types := make([]table.Type, len(tbl.Columns))
	for i, c := range tbl.Columns {
		types[i] = c.Type
	}
	assert.Equal(t, []table.Type{
		table.Text, table.Text, table.Numeric, table.Numeric,
		table.Numeric, table.Logical, table.Text,
	}, types)

	for i := range tbl.Len() {
		v, ok := tbl.Value(i, "dataResourceUid")
		require.True(t, ok)
		assert.Equal(t, "dr5", v)
	}
	v, _ := tbl.Value(1, "annualMeanTemperature")
	assert.Nil(t, v)
}

func TestCleanIdempotent(t *testing.T) {
	voc := testVocabulary()
	header, rows, err := readTSV(strings.NewReader(dataTSV))
	require.NoError(t, err)

	tbl := table.Infer(header, rows)
	Clean(tbl, voc)
	names := tbl.Names()
	Clean(tbl, voc)
	assert.Equal(t, names, tbl.Names())
}

func TestReadEmpty(t *testing.T) {
	tests := []struct {
		msg   string
		files map[string]string
		cols  int
	}{
		{"header only", map[string]string{"data.csv": "taxon_name\tlatitude\n"}, 2},
		{"empty data file", map[string]string{"data.csv": ""}, 0},
		{"no data file", map[string]string{"README.html": "<p>hi</p>"}, 0},
	}

	for _, tt := range tests {
		path := writeZip(t, tt.files)
		res, err := Read(path, testVocabulary())
		require.NoError(t, err, tt.msg)
		assert.Equal(t, 0, res.Table.Len(), tt.msg)
		assert.Len(t, res.Table.Columns, tt.cols, tt.msg)
		assert.Equal(t, []string{NoRecordsWarning}, res.Warnings, tt.msg)
	}
}

func TestReadmeCitation(t *testing.T) {
	readme := `<html><head><title>x</title><style>p {}</style></head>
<body><h1>Occurrence download</h1>
<p>Please cite:
  <b>Artportalen</b>   (2024).</p>
<script>var a = 1;</script></body></html>`
	path := writeZip(t, map[string]string{
		"data.csv":    dataTSV,
		"README.html": readme,
	})
	res, err := Read(path, testVocabulary())
	require.NoError(t, err)
	assert.Equal(t, "Occurrence download\nPlease cite: Artportalen (2024).",
		res.Citation)
}

func TestReadErrors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0644))
	_, err := Read(bad, testVocabulary())
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ArchiveOpenError, gnErr.Code)

	path := writeZip(t, map[string]string{"data.csv": "a\tb\n1\t2\t3\n"})
	_, err = Read(path, testVocabulary())
	require.Error(t, err)
	gnErr, ok = err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ArchiveParseError, gnErr.Code)
	assert.Contains(t, gnErr.Err.Error(), "line 2")
}

func TestReadTSV(t *testing.T) {
	tests := []struct {
		msg    string
		input  string
		header []string
		rows   [][]string
	}{
		{"crlf and no final newline", "a\tb\r\n1\t2", []string{"a", "b"},
			[][]string{{"1", "2"}}},
		{"escapes", "a\tb\nx\\ty\tline\\nbreak\\\\\n", []string{"a", "b"},
			[][]string{{"x\ty", "line\nbreak\\"}}},
		{"unknown escape kept", "a\nC:\\path\n", []string{"a"},
			[][]string{{"C:\\path"}}},
		{"blank lines skipped", "a\tb\n\n1\t2\n\n", []string{"a", "b"},
			[][]string{{"1", "2"}}},
		{"quotes removed", "\"a\"\tb\n\"say \"\"hi\"\"\"\t\"\"\n", []string{"a", "b"},
			[][]string{{`say "hi"`, ""}}},
		{"short row", "a\tb\tc\n1\t2\n", []string{"a", "b", "c"},
			[][]string{{"1", "2"}}},
		{"trailing empty field", "a\tb\n1\t\n", []string{"a", "b"},
			[][]string{{"1", ""}}},
		{"bom", "\ufeffa\tb\n1\t2\n", []string{"a", "b"},
			[][]string{{"1", "2"}}},
	}

	for _, tt := range tests {
		header, rows, err := readTSV(strings.NewReader(tt.input))
		require.NoError(t, err, tt.msg)
		assert.Equal(t, tt.header, header, tt.msg)
		assert.Equal(t, tt.rows, rows, tt.msg)
	}

	header, rows, err := readTSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Nil(t, rows)
}
