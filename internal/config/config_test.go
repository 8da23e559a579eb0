package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LOCKFS_PERSISTENT_DIR", "LOCKFS_TRANSIENT_DIR", "LOCKFS_KEY_PASSPHRASE",
		"LOCKFS_USE_KEYRING", "LOCKFS_JOURNAL", "LOCKFS_LOG_VERBOSE", "LOCKFS_LOG_DEBUG",
		"FLET_APP_STORAGE_DATA", "FLET_APP_STORAGE_TEMP",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, cfg.PersistentDir)
	assert.Equal(t, filepath.Join(wd, "temp"), cfg.TransientDir)
	assert.Empty(t, cfg.Journal)
	assert.False(t, cfg.UseKeyring)
	assert.False(t, cfg.Log.Verbose)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "lockfs.yaml")
	content := `
persistent_dir: ` + filepath.Join(dir, "data") + `
journal: ` + filepath.Join(dir, "journal.db") + `
use_keyring: true
log:
  verbose: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data"), cfg.PersistentDir)
	assert.Equal(t, filepath.Join(dir, "data", "temp"), cfg.TransientDir)
	assert.Equal(t, filepath.Join(dir, "journal.db"), cfg.Journal)
	assert.True(t, cfg.UseKeyring)
	assert.True(t, cfg.Log.Verbose)
	assert.False(t, cfg.Log.Debug)
}

func TestLoadFileNotFound(t *testing.T) {
	clearEnv(t)
	_, err := Load(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "lockfs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("persistent_dir: /from/file\n"), 0600))

	t.Setenv("LOCKFS_PERSISTENT_DIR", filepath.Join(dir, "env"))
	t.Setenv("LOCKFS_LOG_DEBUG", "true")
	t.Setenv("LOCKFS_KEY_PASSPHRASE", "secret")

	cfg, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "env"), cfg.PersistentDir)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "secret", cfg.KeyPassphrase)
}

func TestLegacyEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	t.Setenv("FLET_APP_STORAGE_DATA", filepath.Join(dir, "data"))
	t.Setenv("FLET_APP_STORAGE_TEMP", filepath.Join(dir, "tmp"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.PersistentDir)
	assert.Equal(t, filepath.Join(dir, "tmp"), cfg.TransientDir)

	// The native prefix wins over the legacy one
	t.Setenv("LOCKFS_TRANSIENT_DIR", filepath.Join(dir, "native"))
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "native"), cfg.TransientDir)
}

func TestFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("LOCKFS_PERSISTENT_DIR", filepath.Join(dir, "env"))

	cfg, err := Load(WithFlags(map[string]any{
		"persistent_dir": filepath.Join(dir, "flag"),
		"log.verbose":    true,
	}))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flag"), cfg.PersistentDir)
	assert.True(t, cfg.Log.Verbose)
}

func TestUnflatten(t *testing.T) {
	got := unflatten(map[string]any{"a": 1, "log.verbose": true, "log.debug": false})
	assert.Equal(t, map[string]any{
		"a":   1,
		"log": map[string]any{"verbose": true, "debug": false},
	}, got)
}
