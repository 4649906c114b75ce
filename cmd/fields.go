package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/occdl/pkg/vocab"
	"github.com/spf13/cobra"
)

// getFieldsCmd returns the fields command.
func getFieldsCmd() *cobra.Command {
	var assertions, layers bool

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "List occurrence fields, assertions or layers",
		Long: `List occurrence fields that can be used in filter queries and
field selections. With --assertions lists quality assertions, with
--layers lists environmental and contextual layers.

Output is tab-separated: id, column name in results, description.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags(cmd, cacheFlag)
			return runFields(os.Stdout, assertions, layers)
		},
	}

	fl := fieldsCmd.Flags()
	fl.BoolVarP(&assertions, "assertions", "a", false,
		"list quality assertions")
	fl.BoolVarP(&layers, "layers", "l", false, "list spatial layers")
	fl.String("cache", "", "cache mode: on, off, refresh")
	return fieldsCmd
}

func runFields(w io.Writer, assertions, layers bool) error {
	src, _ := newServices()
	voc, err := src.Load(context.Background())
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return writeVocab(w, voc, assertions, layers)
}

func writeVocab(
	w io.Writer,
	voc *vocab.Vocabulary,
	assertions, layers bool,
) error {
	var rows [][]string
	switch {
	case assertions:
		rows = append(rows, []string{"name", "column", "fatal", "description"})
		for _, a := range voc.Assertions {
			rows = append(rows, []string{
				a.Name, vocab.CamelCase(a.Name),
				strconv.FormatBool(a.Fatal), a.Description,
			})
		}
	case layers:
		rows = append(rows, []string{"id", "column", "type", "name"})
		dict := voc.RenameLayers()
		for _, l := range voc.Layers {
			rows = append(rows, []string{l.ID, dict[l.ID], l.Type, l.Name})
		}
	default:
		rows = append(rows, []string{"name", "column", "indexed", "description"})
		dict := voc.RenameFields()
		for _, f := range voc.Fields {
			if !f.Stored && !f.Indexed {
				continue
			}
			rows = append(rows, []string{
				f.Name, dict[f.Name], strconv.FormatBool(f.Indexed),
				f.Description,
			})
		}
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, gnfmt.ToCSV(row, '\t')); err != nil {
			return err
		}
	}
	return nil
}
