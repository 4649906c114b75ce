// Package ioarchive reads occurrence download archives into tables.
// This is an impure I/O package.
//
// An archive is a zip file with tab-delimited occurrence data in
// 'data.csv' and, optionally, citation information in 'citation.csv' or
// 'README.html'.
package ioarchive

import (
	"archive/zip"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gnames/occdl/pkg/table"
	"github.com/gnames/occdl/pkg/vocab"
)

// Names of files inside of an archive.
const (
	DataFile     = "data.csv"
	CitationFile = "citation.csv"
	ReadmeFile   = "README.html"
)

// NoRecordsWarning is added to results that contain no records.
const NoRecordsWarning = "no matching records were found"

// Result is a materialized archive.
type Result struct {
	Table    *table.Table
	Citation string
	Warnings []string
}

// Read opens the zip archive at zipPath and converts its data file into
// a table. Columns are renamed with vocabulary dictionaries in two
// passes (spatial layers first, then fields and assertions) and
// unwanted columns are removed. A missing or empty data file is not an
// error, it gives an empty table and a warning.
func Read(zipPath string, voc *vocab.Vocabulary) (*Result, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, OpenError(zipPath, err)
	}
	defer zr.Close()

	res := &Result{Table: &table.Table{}}

	header, rows, err := readFile(zr, DataFile)
	if err != nil {
		return nil, ParseError(zipPath, DataFile, err)
	}
	if header != nil {
		res.Table = table.Infer(header, rows)
		Clean(res.Table, voc)
	}
	if res.Table.Len() == 0 {
		slog.Warn("Archive has no occurrence records", "path", zipPath)
		res.Warnings = append(res.Warnings, NoRecordsWarning)
	}

	res.Citation = citation(zr)
	slog.Debug("Archive materialized",
		"path", zipPath,
		"records", res.Table.Len(),
		"columns", len(res.Table.Columns),
	)
	return res, nil
}

// Clean renames columns of t to human-readable names and drops
// unwanted columns. Applying Clean to an already cleaned table changes
// nothing.
func Clean(t *table.Table, voc *vocab.Vocabulary) {
	if voc != nil {
		t.Rename(voc.RenameLayers())
		t.Rename(voc.RenameFields())
	}

	drop := make([]string, 0, 2*len(vocab.UnwantedColumns))
	for _, c := range vocab.UnwantedColumns {
		drop = append(drop, c, vocab.CamelCase(c))
	}
	t.Drop(drop...)
}

// findFile returns a file with the given base name. Archives sometimes
// keep files in a subdirectory.
func findFile(zr *zip.ReadCloser, name string) *zip.File {
	for _, f := range zr.File {
		if strings.EqualFold(path.Base(f.Name), name) {
			return f
		}
	}
	return nil
}

// readFile parses a tab-delimited file from the archive. A missing file
// gives nil header and no error.
func readFile(zr *zip.ReadCloser, name string) ([]string, [][]string, error) {
	f := findFile(zr, name)
	if f == nil {
		return nil, nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	return readTSV(rc)
}

func readAll(zr *zip.ReadCloser, name string) ([]byte, error) {
	f := findFile(zr, name)
	if f == nil {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
