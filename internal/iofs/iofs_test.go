package iofs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/occdl/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestEnsureDirs verifies all required directories are created with
// 0755 permissions.
func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	dirs := []string{
		filepath.Join(tmpDir, ".config", "occdl"),
		filepath.Join(tmpDir, ".cache", "occdl"),
		filepath.Join(tmpDir, ".cache", "occdl", "archives"),
		filepath.Join(tmpDir, ".cache", "occdl", "vocab"),
		filepath.Join(tmpDir, ".local", "share", "occdl", "logs"),
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), dir)
	}
}

// TestEnsureDirs_Idempotent verifies multiple calls work.
func TestEnsureDirs_Idempotent(t *testing.T) {
	tmpDir := t.TempDir()
	for range 3 {
		require.NoError(t, EnsureDirs(tmpDir))
	}
}

// TestTouchDir_CreatesNewDirectory verifies new directory
// creation.
func TestTouchDir_CreatesNewDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	newDir := filepath.Join(tmpDir, "test", "subdir")

	err := touchDir(newDir)
	require.NoError(t, err)

	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestEnsureConfigFile verifies the embedded config is written once
// and never overwritten.
func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "occdl", "config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	customContent := "# Custom config\ndownload:\n  email: me@example.org\n"
	err = os.WriteFile(configPath, []byte(customContent), 0644)
	require.NoError(t, err)

	require.NoError(t, EnsureConfigFile(tmpDir))
	content, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(content),
		"Existing config file should not be overwritten")
}

// TestConfigYAML_MatchesDefaults verifies the embedded config agrees
// with built-in defaults where both define a value.
func TestConfigYAML_MatchesDefaults(t *testing.T) {
	var doc struct {
		API struct {
			BiocacheURL string `yaml:"biocache_url"`
			Timeout     string `yaml:"timeout"`
		} `yaml:"api"`
		Cache struct {
			Mode string `yaml:"mode"`
		} `yaml:"cache"`
		Download struct {
			PollInterval    string `yaml:"poll_interval"`
			MaxPollAttempts int    `yaml:"max_poll_attempts"`
		} `yaml:"download"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(ConfigYAML), &doc))

	cfg := config.New()
	assert.Equal(t, cfg.API.BiocacheURL, doc.API.BiocacheURL)
	assert.Equal(t, cfg.Cache.Mode, doc.Cache.Mode)
	assert.Equal(t, cfg.Download.MaxPollAttempts, doc.Download.MaxPollAttempts)

	d, err := time.ParseDuration(doc.Download.PollInterval)
	require.NoError(t, err)
	assert.Equal(t, cfg.Download.PollInterval, d)
	d, err = time.ParseDuration(doc.API.Timeout)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.Timeout, d)
}

func TestConfigToYAML(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptCacheMode(config.CacheRefresh),
		config.OptDownloadPollInterval(5 * time.Second),
	})

	bs, err := ConfigToYAML(cfg)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(bs, &doc))
	assert.Equal(t, "refresh", doc["cache"]["mode"])
	assert.Equal(t, "5s", doc["download"]["poll_interval"])
	assert.Equal(t, true, doc["taxon"]["normalize"])
	assert.Equal(t, 1800, doc["download"]["max_poll_attempts"])
}

func TestClearArchives(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))

	dir := config.ArchiveDir(tmpDir)
	path := filepath.Join(dir, "x.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))

	require.NoError(t, ClearArchives(tmpDir))
	assert.NoFileExists(t, path)
	assert.DirExists(t, dir)
}
