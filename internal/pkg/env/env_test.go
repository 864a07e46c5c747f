package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Port    string `env:"BRIDGE_TEST_PORT" envDefault:":8080"`
	Workers int    `env:"BRIDGE_TEST_WORKERS" envDefault:"4"`
}

func TestParse(t *testing.T) {
	t.Setenv("BRIDGE_TEST_WORKERS", "12")

	var cfg sampleConfig
	require.NoError(t, Parse(&cfg))

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, 12, cfg.Workers)
}

func TestParse_InvalidValue(t *testing.T) {
	t.Setenv("BRIDGE_TEST_WORKERS", "many")

	var cfg sampleConfig
	assert.Error(t, Parse(&cfg))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bridge.env")
	require.NoError(t, os.WriteFile(path, []byte("BRIDGE_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("BRIDGE_TEST_DOTENV") })

	loaded, err := LoadDotEnv(path)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "loaded", os.Getenv("BRIDGE_TEST_DOTENV"))

	loaded, err = LoadDotEnv(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.False(t, loaded)
}
