/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/internal/iodownload"
	"github.com/gnames/occdl/internal/iofs"
	"github.com/gnames/occdl/internal/iohttp"
	"github.com/gnames/occdl/internal/iologger"
	"github.com/gnames/occdl/internal/iovocab"
	occdl "github.com/gnames/occdl/pkg"
	"github.com/gnames/occdl/pkg/config"
	"github.com/gnames/occdl/pkg/occurrence"
	"github.com/gnames/occdl/pkg/vocab"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	cfg       *config.Config
	logCloser io.Closer
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", occdl.Version, occdl.Build),
		Use:     "occdl",
		Short:   "Downloads biodiversity occurrence records",
		Long: `occdl downloads occurrence records from a biocache web service.

A download is an offline job on the server: occdl submits a query, waits
until the job is finished, saves the zip archive to a local cache and
converts its data into a table with human-readable column names.

Configuration is read from ~/.config/occdl/config.yaml and from
environment variables with OCCDL_ prefix. Command line flags have the
highest priority.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap(verbose)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for occdl")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"debug-level logs")

	rootCmd.AddCommand(
		getDownloadCmd(),
		getReasonsCmd(),
		getFieldsCmd(),
		getCacheCmd(),
		getConfigCmd(),
	)
	return rootCmd
}

func bootstrap(verbose bool) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update([]config.Option{
		config.OptAPIUserAgent(config.AppName + "/" + occdl.Version),
	})
	cfg.Update(cfgViper.ToOptions())
	cfg.Update([]config.Option{
		config.OptHomeDir(homeDir),
		config.OptVerbose(verbose),
	})

	logCloser, err = iologger.Init(config.LogDir(homeDir), cfg.Log, false)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"version", occdl.Version,
	)
	return nil
}

// newServices creates vocabulary source and downloader from the
// current configuration.
func newServices() (vocab.Source, occurrence.Downloader) {
	client := iohttp.New(cfg)
	src := iovocab.New(cfg, client)
	return src, iodownload.New(cfg, src, client)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// envKeys are config.yaml keys that can be set by environment variables.
// They match the fields of config.ToOptions().
var envKeys = []string{
	"api.biocache_url",
	"api.logger_url",
	"api.layers_url",
	"api.download_url",
	"api.user_agent",
	"api.timeout",
	"api.requests_per_second",
	"cache.mode",
	"cache.vocabulary_ttl",
	"download.email",
	"download.reason",
	"download.source_type_id",
	"download.poll_interval",
	"download.poll_timeout",
	"download.max_poll_attempts",
	"download.show_progress",
	"taxon.normalize",
	"taxon.code",
	"log.level",
	"log.format",
	"log.destination",
}

// envName converts a config key to its environment variable,
// 'cache.mode' becomes 'OCCDL_CACHE_MODE'.
func envName(key string) string {
	r := strings.NewReplacer(".", "_")
	return strings.ToUpper(config.AppName + "_" + r.Replace(key))
}

func initEnvVars(v *viper.Viper) {
	// Variables are bound one by one, so it is clear which of them are
	// allowed.
	for _, k := range envKeys {
		_ = v.BindEnv(k, envName(k))
	}
}
