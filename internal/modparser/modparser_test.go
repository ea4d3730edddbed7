package modparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/evcodes"
)

func TestLookupAliasCaseInsensitive(t *testing.T) {
	code, ok := LookupAlias("CTRL")
	require.True(t, ok)
	require.Equal(t, uint16(evcodes.KEY_LEFTCTRL), code)

	code2, ok2 := LookupAlias("ctrl")
	require.True(t, ok2)
	require.Equal(t, code, code2)
}

func TestLookupAliasUnknown(t *testing.T) {
	_, ok := LookupAlias("not-a-real-key")
	require.False(t, ok)
}

func TestParseModifierPress(t *testing.T) {
	m, err := ParseModifier("ctrl")
	require.NoError(t, err)
	require.Equal(t, Press, m.Kind)
	require.Equal(t, []string{"ctrl"}, m.Names)
}

func TestParseModifierRelease(t *testing.T) {
	m, err := ParseModifier("/ctrl")
	require.NoError(t, err)
	require.Equal(t, Release, m.Kind)
	require.Equal(t, []string{"ctrl"}, m.Names)
}

func TestParseModifierChord(t *testing.T) {
	m, err := ParseModifier("ctrl-shift-r")
	require.NoError(t, err)
	require.Equal(t, Chord, m.Kind)
	require.Equal(t, []string{"ctrl", "shift", "r"}, m.Names)
}

func TestParseModifierEmptyIsError(t *testing.T) {
	_, err := ParseModifier("")
	require.Error(t, err)
}

func TestParseCharOrCodepointUnicodeEscape(t *testing.T) {
	r, err := ParseCharOrCodepoint("U+0041")
	require.NoError(t, err)
	require.Equal(t, 'A', r)
}

func TestParseCharOrCodepointLiteral(t *testing.T) {
	r, err := ParseCharOrCodepoint("é")
	require.NoError(t, err)
	require.Equal(t, 'é', r)
}

func TestParseCharOrCodepointRejectsSurrogate(t *testing.T) {
	_, err := ParseCharOrCodepoint("U+D800")
	require.Error(t, err)
}

func TestParseCharOrCodepointDecimal(t *testing.T) {
	r, err := ParseCharOrCodepoint("65")
	require.NoError(t, err)
	require.Equal(t, 'A', r)
}
