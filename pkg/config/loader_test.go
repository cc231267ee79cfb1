package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	workspace := t.TempDir()

	cfg, err := Load("", workspace)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RootAliases)
}

func TestLoad_WellKnownFile(t *testing.T) {
	workspace := t.TempDir()
	writeConfig(t, filepath.Join(workspace, ConfigFileName),
		"root_aliases:\n"+
			"  - '\\MyFacade'\n"+
			"extra_shortcuts:\n"+
			"  siteConfig: config.factory\n"+
			"exclude:\n"+
			"  - 'legacy/'\n")

	cfg, err := Load("", workspace)
	require.NoError(t, err)

	assert.Equal(t, []string{"\\MyFacade"}, cfg.RootAliases)
	assert.Equal(t, "config.factory", cfg.ExtraShortcuts["siteConfig"])
	assert.Equal(t, []string{"legacy/"}, cfg.Exclude)
	assert.Equal(t, "info", cfg.LogLevel, "defaults should survive a partial file")
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	writeConfig(t, path, "log_level: debug\n")

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yml")

	_, err := Load(missing, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	workspace := t.TempDir()
	writeConfig(t, filepath.Join(workspace, ConfigFileName), "root_aliases: [\n")

	_, err := Load("", workspace)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_InvalidLogLevelInFile(t *testing.T) {
	workspace := t.TempDir()
	writeConfig(t, filepath.Join(workspace, ConfigFileName), "log_level: loud\n")

	_, err := Load("", workspace)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), `unknown log level "loud"`)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")

	workspace := t.TempDir()
	writeConfig(t, filepath.Join(workspace, ConfigFileName), "log_level: warn\n")

	cfg, err := Load("", workspace)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
}
