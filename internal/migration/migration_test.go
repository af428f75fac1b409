package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/paths"
)

func writeLegacy(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, paths.LegacyConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestMigrateFile(t *testing.T) {
	dir := t.TempDir()
	from := writeLegacy(t, dir, "api:\n  baseURL: http://legacy.local:9000/\nui:\n  pageSize: 25\n")
	to := filepath.Join(dir, "config", "storeadmin", paths.ConfigFileName)

	res, err := MigrateFile(from, to, false)
	require.NoError(t, err)
	assert.Equal(t, from, res.From)
	assert.Equal(t, to, res.To)
	assert.False(t, res.Removed)
	assert.FileExists(t, from)

	cfg, err := config.Load(to)
	require.NoError(t, err)
	assert.Equal(t, "http://legacy.local:9000", cfg.API.BaseURL)
	assert.Equal(t, 25, cfg.UI.PageSize)
}

func TestMigrateFileRemovesLegacy(t *testing.T) {
	dir := t.TempDir()
	from := writeLegacy(t, dir, "ui:\n  pageSize: 15\n")
	to := filepath.Join(dir, "user.yaml")

	res, err := MigrateFile(from, to, true)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.NoFileExists(t, from)
	assert.FileExists(t, to)
}

func TestMigrateFileRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	from := writeLegacy(t, dir, "ui:\n  pageSize: 5000\n")
	to := filepath.Join(dir, "user.yaml")

	_, err := MigrateFile(from, to, true)
	require.Error(t, err)
	assert.NoFileExists(t, to)
	assert.FileExists(t, from)
}

func TestMigrateNeedsLegacyFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	p := &paths.Paths{UserConfigDir: filepath.Join(dir, "config")}

	needs, _ := NeedsMigration(p)
	assert.False(t, needs)

	_, err := Migrate(p, false)
	assert.ErrorIs(t, err, ErrNothingToMigrate)
}

func TestMigrateFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	writeLegacy(t, dir, "ui:\n  startPage: payments\n")
	p := &paths.Paths{UserConfigDir: filepath.Join(dir, "config")}

	needs, legacyPath := NeedsMigration(p)
	require.True(t, needs)
	assert.Equal(t, paths.LegacyConfigFileName, filepath.Base(legacyPath))

	res, err := Migrate(p, true)
	require.NoError(t, err)
	assert.Equal(t, p.UserConfigFile(), res.To)

	cfg, err := config.Load(p.UserConfigFile())
	require.NoError(t, err)
	assert.Equal(t, "payments", cfg.UI.StartPage)

	needs, _ = NeedsMigration(p)
	assert.False(t, needs)

	_, err = Migrate(p, false)
	assert.ErrorIs(t, err, ErrNothingToMigrate)
}

func TestMigrateRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	writeLegacy(t, dir, "ui:\n  pageSize: 15\n")
	p := &paths.Paths{UserConfigDir: filepath.Join(dir, "config")}
	require.NoError(t, os.MkdirAll(p.UserConfigDir, 0700))
	require.NoError(t, config.Default().Save(p.UserConfigFile()))

	_, err := Migrate(p, false)
	assert.ErrorIs(t, err, ErrUserConfigExists)
}
