package cmd

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getReasonsCmd returns the reasons command.
func getReasonsCmd() *cobra.Command {
	reasonsCmd := &cobra.Command{
		Use:   "reasons",
		Short: "List accepted download reasons",
		Long: `List download reasons accepted by the server. Every download
needs a reason, given by its id or by its name:

  occdl download -t "Bubo bubo" -r 10
  occdl download -t "Bubo bubo" -r testing

A default reason can be set in config.yaml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags(cmd, cacheFlag)
			return runReasons()
		},
	}
	reasonsCmd.Flags().String("cache", "", "cache mode: on, off, refresh")
	return reasonsCmd
}

func runReasons() error {
	src, _ := newServices()
	voc, err := src.Load(context.Background())
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	for _, r := range voc.ActiveReasons() {
		fmt.Printf("%d\t%s\n", r.ID, r.Name)
	}
	return nil
}
