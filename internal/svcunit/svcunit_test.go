package svcunit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteIfNeededLeavesPlainTokensAlone(t *testing.T) {
	require.Equal(t, "foo", quoteIfNeeded("foo"))
}

func TestQuoteIfNeededQuotesWhitespace(t *testing.T) {
	require.Equal(t, "'hello world'", quoteIfNeeded("hello world"))
}

func TestQuoteIfNeededEscapesEmbeddedQuote(t *testing.T) {
	require.Equal(t, `'it'\''s'`, quoteIfNeeded("it's"))
}

func TestQuoteIfNeededEmptyString(t *testing.T) {
	require.Equal(t, "''", quoteIfNeeded(""))
}

func TestEscapeCommandJoinsArgs(t *testing.T) {
	got := escapeCommand("/usr/bin/foresight", []string{"intercept", "-g", "/dev/input/event0"})
	require.Equal(t, "/usr/bin/foresight intercept -g /dev/input/event0", got)
}

func TestInstallWritesUnitFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := Install("foresight-test", "foresight", []string{"intercept", "/dev/input/event0"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "systemd", "user", "foresight-test.service"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "foresight-test")
	require.Contains(t, string(content), "ExecStart=")
	require.Contains(t, string(content), "Restart=always")
}

func TestCheckSupportFalseWithoutRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")
	require.False(t, CheckSupport())
}
