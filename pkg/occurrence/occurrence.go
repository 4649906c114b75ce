// Package occurrence defines the result of an occurrence download and
// helpers that work on it.
package occurrence

import (
	"context"
	"maps"
	"slices"

	"github.com/gnames/occdl/pkg/query"
	"github.com/gnames/occdl/pkg/table"
	"github.com/gnames/occdl/pkg/vocab"
	"github.com/mmcloughlin/geohash"
)

// Column names of coordinates in materialized tables.
const (
	LatitudeColumn  = "decimalLatitude"
	LongitudeColumn = "decimalLongitude"
)

// Downloader runs an offline occurrence download from a query to a
// materialized table.
type Downloader interface {
	// Download validates input, submits an offline download job, waits
	// for it, fetches the archive (or reuses a cached one) and reads
	// it into a table.
	Download(ctx context.Context, in query.Input) (*Occurrences, error)
}

// Occurrences is the result of a download.
type Occurrences struct {
	// Table contains occurrence records.
	Table *table.Table `json:"table"`

	// Citation is the text for citing the data, empty if the archive
	// has no citation.
	Citation string `json:"citation,omitempty"`

	// Query is the query sent to the server.
	Query *query.Query `json:"-"`

	// URL is the normalized download URL, it identifies the download in
	// the cache.
	URL string `json:"url"`

	// ArchivePath is the location of the cached zip archive. It is empty
	// when cache is off.
	ArchivePath string `json:"archivePath,omitempty"`

	// Warnings are non-fatal problems found during the download.
	Warnings []string `json:"warnings,omitempty"`
}

// Summary gives a short description of downloaded data.
type Summary struct {
	Records int      `json:"records"`
	Columns []string `json:"columns"`
	// Assertions counts records flagged by each assertion that is
	// present as a column.
	Assertions map[string]int `json:"assertions,omitempty"`
}

// Len returns the number of records.
func (o *Occurrences) Len() int {
	if o == nil {
		return 0
	}
	return o.Table.Len()
}

// Summary counts records and quality assertion flags. Assertion columns
// are recognized as logical columns.
func (o *Occurrences) Summary() Summary {
	res := Summary{Records: o.Len()}
	if o.Table == nil {
		return res
	}
	res.Columns = o.Table.Names()
	for i, c := range o.Table.Columns {
		if c.Type != table.Logical {
			continue
		}
		if res.Assertions == nil {
			res.Assertions = make(map[string]int)
		}
		var count int
		for _, row := range o.Table.Rows {
			if b, ok := row[i].(bool); ok && b {
				count++
			}
		}
		res.Assertions[c.Name] = count
	}
	return res
}

// FatalRecords returns records flagged by at least one fatal
// assertion of voc.
func (o *Occurrences) FatalRecords(voc *vocab.Vocabulary) *table.Table {
	if o.Table == nil {
		return &table.Table{}
	}
	var cols []string
	for _, a := range voc.FatalAssertions() {
		for _, name := range []string{vocab.CamelCase(a), a} {
			if o.Table.ColumnIndex(name) >= 0 {
				cols = append(cols, name)
				break
			}
		}
	}
	return o.Table.Filter(func(rec map[string]any) bool {
		for _, c := range cols {
			if b, ok := rec[c].(bool); ok && b {
				return true
			}
		}
		return false
	})
}

// Cell is the number of records in one geohash cell.
type Cell struct {
	Geohash string  `json:"geohash"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Count   int     `json:"count"`
}

// GridCounts aggregates records with coordinates into geohash cells of
// the given precision (1-12 characters). Cells are sorted by geohash.
func (o *Occurrences) GridCounts(precision uint) []Cell {
	precision = min(max(precision, 1), 12)
	if o.Table == nil {
		return nil
	}
	latIdx := o.Table.ColumnIndex(LatitudeColumn)
	lngIdx := o.Table.ColumnIndex(LongitudeColumn)
	if latIdx < 0 || lngIdx < 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, row := range o.Table.Rows {
		lat, ok1 := row[latIdx].(float64)
		lng, ok2 := row[lngIdx].(float64)
		if !ok1 || !ok2 || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			continue
		}
		counts[geohash.EncodeWithPrecision(lat, lng, precision)]++
	}

	keys := slices.Sorted(maps.Keys(counts))
	res := make([]Cell, len(keys))
	for i, k := range keys {
		lat, lng := geohash.DecodeCenter(k)
		res[i] = Cell{Geohash: k, Lat: lat, Lng: lng, Count: counts[k]}
	}
	return res
}
