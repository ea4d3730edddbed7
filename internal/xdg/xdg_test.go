package xdg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigHomeUsesEnvWhenSet(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	require.Equal(t, "/custom/config", ConfigHome())
}

func TestConfigHomeFallsBackToDotConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	require.Equal(t, filepath.Join("/home/tester", ".config"), ConfigHome())
}

func TestConfigHomeIgnoresRelativeEnvValue(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "relative/path")
	t.Setenv("HOME", "/home/tester")
	require.Equal(t, filepath.Join("/home/tester", ".config"), ConfigHome())
}

func TestConfigFileCreatesUnderConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	f, err := ConfigFile("foresight/layout.yaml")
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, filepath.Join(dir, "foresight/layout.yaml"), f.Name())
}

func TestConfigDirsDefaultsToEtcXdg(t *testing.T) {
	t.Setenv("XDG_CONFIG_DIRS", "")
	require.Equal(t, "/etc/xdg", ConfigDirs())
}

func TestRuntimeFileFallsBackToTmp(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	f, err := RuntimeFile("foresight/test.sock")
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, filepath.Join("/tmp", "foresight/test.sock"), f.Name())
}
