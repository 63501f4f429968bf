package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string            `json:"name" env:"CONFIGUTIL_TEST_NAME"`
	Port    int               `json:"port" env:"CONFIGUTIL_TEST_PORT"`
	Headers map[string]string `json:"headers"`
}

func writeFile(t testing.TB, path, contents string) {
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.json5"), `{
		// comments are allowed
		name: "base",
		port: 8080,
		headers: {"From": "a@example.com"},
	}`)
	writeFile(t, filepath.Join(dir, "app.local.json5"), `{port: 9090}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.NoError(t, err)
	require.Equal(t, testConfig{
		Name:    "base",
		Port:    9090,
		Headers: map[string]string{"From": "a@example.com"},
	}, config)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.local.json5"), `{name: "local"}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.NoError(t, err)
	require.Equal(t, "local", config.Name)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "app.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.json5"), `{name: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("CONFIGUTIL_TEST_PORT", "7000")

	config := testConfig{Name: "kept", Port: 1}
	require.NoError(t, ParseEnv(&config))
	require.Equal(t, "kept", config.Name)
	require.Equal(t, 7000, config.Port)

	t.Setenv("CONFIGUTIL_TEST_PORT", "not a number")
	require.Error(t, ParseEnv(&config))
}
