// Package iofs creates directories and files occdl needs on the local
// file system.
package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/gnsys"
	"github.com/gnames/occdl/pkg/config"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates config, cache and log directories if they do not
// exist yet.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.ArchiveDir(homeDir),
		config.VocabularyDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the documented default config.yaml unless the
// file already exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// ClearArchives removes all cached archives.
func ClearArchives(homeDir string) error {
	dir := config.ArchiveDir(homeDir)
	if err := gnsys.CleanDir(dir); err != nil {
		return RemoveFileError(dir, err)
	}
	return nil
}

// ConfigToYAML shows the effective configuration in the same layout as
// config.yaml. Durations are written the way they are read, like '2s'.
func ConfigToYAML(cfg *config.Config) ([]byte, error) {
	type m = map[string]any
	doc := m{
		"api": m{
			"biocache_url":        cfg.API.BiocacheURL,
			"logger_url":          cfg.API.LoggerURL,
			"layers_url":          cfg.API.LayersURL,
			"download_url":        cfg.API.DownloadURL,
			"user_agent":          cfg.API.UserAgent,
			"timeout":             cfg.API.Timeout.String(),
			"requests_per_second": cfg.API.RequestsPerSecond,
		},
		"cache": m{
			"mode":           cfg.Cache.Mode,
			"vocabulary_ttl": cfg.Cache.VocabularyTTL.String(),
		},
		"download": m{
			"email":             cfg.Download.Email,
			"reason":            cfg.Download.Reason,
			"source_type_id":    cfg.Download.SourceTypeID,
			"poll_interval":     cfg.Download.PollInterval.String(),
			"poll_timeout":      cfg.Download.PollTimeout.String(),
			"max_poll_attempts": cfg.Download.MaxPollAttempts,
			"show_progress":     cfg.Download.ShowProgress,
		},
		"taxon": m{
			"normalize": cfg.NormalizeTaxon(),
			"code":      cfg.Taxon.Code,
		},
		"log": m{
			"format":      cfg.Log.Format,
			"level":       cfg.Log.Level,
			"destination": cfg.Log.Destination,
		},
	}
	return yaml.Marshal(doc)
}
