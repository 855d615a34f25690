package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port        int    `json:"port"`
	AccessToken string `json:"access_token"`
	Database    struct {
		File string `json:"file"`
	} `json:"database"`
}

func write(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	write(t, path, `{
		// comments are fine
		port: 8400,
		access_token: "secret",
		database: { file: "data.db" },
	}`)

	config, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, 8400, config.Port)
	require.Equal(t, "secret", config.AccessToken)
	require.Equal(t, "data.db", config.Database.File)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	write(t, path, `{ port: 8400, access_token: "secret" }`)
	write(t, filepath.Join(dir, "config.local.json5"), `{ port: 9000 }`)

	config, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, 9000, config.Port, "local layer wins for keys it sets")
	require.Equal(t, "secret", config.AccessToken, "unset keys keep the base value")
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "config.local.json5"), `{ port: 9000 }`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, 9000, config.Port)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
