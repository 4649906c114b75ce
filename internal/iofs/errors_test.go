package iofs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/occdl/pkg/config"
	"github.com/gnames/occdl/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	home := "/home/user"
	cause := errors.New("permission denied")

	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		path string
		cont string
	}{
		{
			"archives dir",
			CreateDirError(config.ArchiveDir(home), cause),
			errcode.CreateDirError,
			config.ArchiveDir(home),
			"cannot create directory",
		},
		{
			"config file",
			CopyFileError(config.ConfigFilePath(home), cause),
			errcode.CopyFileError,
			config.ConfigFilePath(home),
			"cannot write config file",
		},
		{
			"read config",
			ReadFileError(config.ConfigFilePath(home), cause),
			errcode.ReadFileError,
			config.ConfigFilePath(home),
			"cannot read",
		},
		{
			"vocab dir",
			RemoveFileError(config.VocabularyDir(home), cause),
			errcode.RemoveFileError,
			config.VocabularyDir(home),
			"cannot remove",
		},
	}

	for _, tt := range tests {
		gnErr, ok := tt.err.(*gn.Error)
		require.True(t, ok, tt.msg)
		assert.Equal(t, tt.code, gnErr.Code, tt.msg)
		require.Len(t, gnErr.Vars, 1, tt.msg)
		assert.Equal(t, tt.path, gnErr.Vars[0], tt.msg)
		assert.Contains(t, gnErr.Msg, "<em>%s</em>", tt.msg)
		assert.ErrorIs(t, gnErr.Err, cause, tt.msg)
		assert.Contains(t, gnErr.Err.Error(), tt.cont, tt.msg)
		assert.Contains(t, gnErr.Err.Error(), "from ", tt.msg)
	}
}

// TestEnsureDirsError verifies that a file in place of the cache
// directory is reported with CreateDirError.
func TestEnsureDirsError(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".cache"), 0755))
	require.NoError(t, os.WriteFile(config.CacheDir(home), []byte("x"), 0644))

	err := EnsureDirs(home)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
	assert.Equal(t, config.CacheDir(home), gnErr.Vars[0])
}

// TestEnsureConfigFileError verifies that a missing config directory
// gives CopyFileError.
func TestEnsureConfigFileError(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nohome")

	err := EnsureConfigFile(home)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CopyFileError, gnErr.Code)
	assert.Equal(t, config.ConfigFilePath(home), gnErr.Vars[0])
}
