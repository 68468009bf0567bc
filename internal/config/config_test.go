package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./scans", cfg.DataDir)
	assert.True(t, cfg.Build.AttackPaths)
	assert.True(t, cfg.Build.Persistence)
	assert.True(t, cfg.Build.PrivilegeEscalation)
}

func TestLoadOverrideKeepsUnsetDefaults(t *testing.T) {
	path := writeConfig(t, "build:\n  persistence: false\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Build.Persistence)
	assert.True(t, cfg.Build.AttackPaths)
	assert.True(t, cfg.Build.PrivilegeEscalation)
	assert.Equal(t, "./scans", cfg.DataDir)
}

func TestLoadOverrideDataDir(t *testing.T) {
	path := writeConfig(t, "data_dir: /var/lib/cloudsurface\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/cloudsurface", cfg.DataDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "data_dir: [unclosed\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsEmptyDataDir(t *testing.T) {
	path := writeConfig(t, "data_dir: \"\"\n")

	_, err := Load(path)
	assert.Error(t, err)
}
