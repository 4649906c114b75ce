package cmd

import (
	"github.com/gnames/gn"
	"github.com/gnames/occdl/internal/iofs"
	"github.com/gnames/occdl/pkg/config"
	"github.com/spf13/cobra"
)

// getCacheCmd returns the cache command with its subcommands.
func getCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local cache",
		Long: `Manage cached occurrence archives and server vocabularies.

Cached files are located at ~/.cache/occdl.`,
	}
	cacheCmd.AddCommand(getCacheClearCmd())
	return cacheCmd
}

func getCacheClearCmd() *cobra.Command {
	var vocabOnly, archivesOnly bool

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached archives and vocabularies",
		Long: `Remove cached data. Without flags removes everything.

Examples:
  occdl cache clear
  occdl cache clear --vocab
  occdl cache clear --archives`,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := !vocabOnly && !archivesOnly
			return runCacheClear(all || vocabOnly, all || archivesOnly)
		},
	}

	clearCmd.Flags().BoolVar(&vocabOnly, "vocab", false,
		"remove only cached vocabularies")
	clearCmd.Flags().BoolVar(&archivesOnly, "archives", false,
		"remove only cached archives")
	return clearCmd
}

func runCacheClear(vocab, archives bool) error {
	if vocab {
		src, _ := newServices()
		if err := src.Clear(); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("Vocabulary cache is cleared")
	}
	if archives {
		if err := iofs.ClearArchives(cfg.HomeDir); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("Archives are removed from <em>%s</em>",
			config.ArchiveDir(cfg.HomeDir))
	}
	return nil
}
