package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/occdl/pkg/occurrence"
	"github.com/gnames/occdl/pkg/query"
	"github.com/spf13/cobra"
)

// downloadOpts are output settings of the download command.
type downloadOpts struct {
	output  string
	format  string
	grid    uint
	fatal   bool
	summary bool
}

// getDownloadCmd returns the download command.
func getDownloadCmd() *cobra.Command {
	var in query.Input
	var opts downloadOpts

	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download occurrence records",
		Long: `Download occurrence records that match a taxon, a polygon, or
filter queries. At least one of them is required.

The server prepares an archive in the background, occdl waits for it,
saves it to the cache and prints the records. An identical query reuses
the cached archive unless --cache is 'refresh' or 'off'.

Examples:
  occdl download -t "Callitriche cophocarpa" -f data_resource_uid:dr5 \
    -e me@example.org -r 10
  occdl download -w "POLYGON((14 55,24 55,24 69,14 69,14 55))" \
    -t "Bubo bubo" --format tsv -o bubo.tsv
  occdl download -t "Bubo bubo" --grid 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags(cmd, cacheFlag, emailFlag, reasonFlag, quietFlag,
				rawTaxonFlag)
			return runDownload(cmd, in, opts)
		},
	}

	fl := downloadCmd.Flags()
	fl.StringVarP(&in.Taxon, "taxon", "t", "",
		"scientific name or field:value expression")
	fl.StringVarP(&in.WKT, "wkt", "w", "", "search area as WKT polygon")
	fl.StringArrayVarP(&in.Filters, "fq", "f", nil,
		"filter query field:value, can be repeated")
	fl.StringSliceVar(&in.Fields, "fields", nil,
		"comma-separated fields to download, or 'all'")
	fl.StringSliceVar(&in.Extra, "extra", nil,
		"comma-separated additional fields, or 'all'")
	fl.StringSliceVar(&in.QA, "qa", nil,
		"comma-separated quality assertions, 'all' or 'none'")
	fl.StringP("email", "e", "", "email of the requester")
	fl.StringP("reason", "r", "", "download reason id or name")
	fl.StringVar(&in.Remark, "remark", "", "free-text note about the download")
	fl.String("cache", "", "cache mode: on, off, refresh")
	fl.BoolP("quiet", "q", false, "do not show progress bar")
	fl.Bool("raw-taxon", false, "send taxon as is, without normalization")

	fl.StringVarP(&opts.output, "output", "o", "",
		"output file, standard output by default")
	fl.StringVar(&opts.format, "format", "pretty",
		"output format: pretty, compact, csv, tsv")
	fl.UintVar(&opts.grid, "grid", 0,
		"print record counts per geohash cell of this precision (1-12)")
	fl.BoolVar(&opts.fatal, "fatal", false,
		"print only records flagged by fatal quality assertions")
	fl.BoolVar(&opts.summary, "summary", false,
		"print summary instead of records")

	return downloadCmd
}

func runDownload(
	_ *cobra.Command,
	in query.Input,
	opts downloadOpts,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	f, _ := gnfmt.NewFormat(opts.format)
	if f == gnfmt.FormatNone {
		gn.Warn("Unknown format <em>%s</em>, using <em>pretty</em>", opts.format)
		f = gnfmt.PrettyJSON
	}

	src, dl := newServices()
	occ, err := dl.Download(ctx, in)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if occ.Citation != "" {
		gn.Info("Please cite the data as:\n%s", occ.Citation)
	}

	if opts.fatal {
		voc, err := src.Load(ctx)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		occ.Table = occ.FatalRecords(voc)
	}

	w, closeFn, err := outputWriter(opts.output)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer closeFn()

	switch {
	case opts.summary:
		err = writeJSON(w, occ.Summary(), f)
	case opts.grid > 0:
		err = writeGrid(w, occ.GridCounts(opts.grid), f)
	default:
		err = writeOccurrences(w, occ, f)
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if opts.output != "" {
		gn.Info("Output saved to <em>%s</em>", opts.output)
	}
	return nil
}

func outputWriter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func separator(f gnfmt.Format) rune {
	if f == gnfmt.TSV {
		return '\t'
	}
	return ','
}

func writeJSON(w io.Writer, v any, f gnfmt.Format) error {
	enc := gnfmt.GNjson{Pretty: f != gnfmt.CompactJSON}
	bs, err := enc.Encode(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bs))
	return err
}

func writeOccurrences(
	w io.Writer,
	occ *occurrence.Occurrences,
	f gnfmt.Format,
) error {
	if f != gnfmt.CSV && f != gnfmt.TSV {
		return writeJSON(w, occ, f)
	}

	sep := separator(f)
	if _, err := fmt.Fprintln(w, gnfmt.ToCSV(occ.Table.Names(), sep)); err != nil {
		return err
	}
	for i := range occ.Table.Len() {
		line := gnfmt.ToCSV(occ.Table.Strings(i), sep)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeGrid(w io.Writer, cells []occurrence.Cell, f gnfmt.Format) error {
	if f != gnfmt.CSV && f != gnfmt.TSV {
		return writeJSON(w, cells, f)
	}

	sep := separator(f)
	header := []string{"geohash", "lat", "lng", "count"}
	if _, err := fmt.Fprintln(w, gnfmt.ToCSV(header, sep)); err != nil {
		return err
	}
	for _, c := range cells {
		row := []string{
			c.Geohash,
			strconv.FormatFloat(c.Lat, 'f', -1, 64),
			strconv.FormatFloat(c.Lng, 'f', -1, 64),
			strconv.Itoa(c.Count),
		}
		if _, err := fmt.Fprintln(w, gnfmt.ToCSV(row, sep)); err != nil {
			return err
		}
	}
	return nil
}
