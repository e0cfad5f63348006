package demohost

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server: irc.example.org
port: 6667
tls: false
nick: tester
channels: ["#one", "#two"]
logLevel: debug
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "irc.example.org", cfg.Server)
	assert.Equal(t, 6667, cfg.Port)
	assert.False(t, cfg.TLS)
	assert.Equal(t, "tester", cfg.Nick)
	assert.Equal(t, []string{"#one", "#two"}, cfg.Channels)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigExpandsPasswordEnv(t *testing.T) {
	t.Setenv("DEMO_IRC_PASS", "s3cret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("password: ${DEMO_IRC_PASS}\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Password)
}

func TestLoadConfigLeavesUnsetEnvReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("password: ${DEFINITELY_UNSET_VAR_42}\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "${DEFINITELY_UNSET_VAR_42}", cfg.Password)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nick: [unclosed\n"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
