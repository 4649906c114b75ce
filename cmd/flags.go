package cmd

import (
	"github.com/gnames/occdl/pkg/config"
	"github.com/spf13/cobra"
)

// funcFlag applies a command line flag to the configuration.
type funcFlag func(cmd *cobra.Command)

func applyFlags(cmd *cobra.Command, flags ...funcFlag) {
	for _, f := range flags {
		f(cmd)
	}
}

func cacheFlag(cmd *cobra.Command) {
	if !cmd.Flags().Changed("cache") {
		return
	}
	s, _ := cmd.Flags().GetString("cache")
	cfg.Update([]config.Option{config.OptCacheMode(s)})
}

func emailFlag(cmd *cobra.Command) {
	if !cmd.Flags().Changed("email") {
		return
	}
	s, _ := cmd.Flags().GetString("email")
	cfg.Update([]config.Option{config.OptDownloadEmail(s)})
}

func reasonFlag(cmd *cobra.Command) {
	if !cmd.Flags().Changed("reason") {
		return
	}
	s, _ := cmd.Flags().GetString("reason")
	cfg.Update([]config.Option{config.OptDownloadReason(s)})
}

func quietFlag(cmd *cobra.Command) {
	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		cfg.Update([]config.Option{config.OptDownloadShowProgress(false)})
	}
}

func rawTaxonFlag(cmd *cobra.Command) {
	raw, _ := cmd.Flags().GetBool("raw-taxon")
	if raw {
		no := false
		cfg.Update([]config.Option{config.OptTaxonNormalize(&no)})
	}
}
