package cmd

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/internal/iofs"
	"github.com/gnames/occdl/pkg/config"
	"github.com/spf13/cobra"
)

// getConfigCmd returns the config command.
func getConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Long: `Show configuration after config.yaml, environment variables
and defaults are combined.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := iofs.ConfigToYAML(cfg)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			gn.Info("Config file: <em>%s</em>", config.ConfigFilePath(cfg.HomeDir))
			fmt.Print(string(bs))
			return nil
		},
	}
}
