package typist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/keymap"
)

func testKeymap() *keymap.Keymap {
	return keymap.New(map[int][]string{
		38: {"a", "A"}, // xkb 38 -> evdev KEY_A (30)
	})
}

func TestTypeLiteralString(t *testing.T) {
	ty := New(testKeymap(), nil)

	events, err := ty.Type("a")
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.Equal(t, uint16(30), events[0].Code)
}

func TestTypePressToken(t *testing.T) {
	ty := New(testKeymap(), nil)

	events, err := ty.Type("<ctrl>")
	require.NoError(t, err)
	require.Len(t, events, 4)
	require.True(t, events[0].Press)
	require.True(t, events[1].Syn)
	require.False(t, events[2].Press)
	require.Equal(t, events[0].Code, events[2].Code)
	require.True(t, events[3].Syn)
}

func TestTypeReleaseToken(t *testing.T) {
	ty := New(testKeymap(), nil)

	events, err := ty.Type("</ctrl>")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.False(t, events[0].Press)
}

func TestTypeChordToken(t *testing.T) {
	ty := New(testKeymap(), nil)

	events, err := ty.Type("<ctrl-shift>")
	require.NoError(t, err)
	// two presses + syn + two releases + syn
	require.Len(t, events, 6)
	require.True(t, events[0].Press)
	require.True(t, events[1].Press)
	require.True(t, events[2].Syn)
	require.False(t, events[3].Press)
	require.False(t, events[4].Press)
	require.True(t, events[5].Syn)
}

func TestTypeUnknownAliasFallsBackToError(t *testing.T) {
	ty := New(testKeymap(), nil)

	_, err := ty.Type("<not-a-real-alias>")
	require.Error(t, err)
}

func TestTypeUnterminatedTokenIsLiteral(t *testing.T) {
	ty := New(testKeymap(), nil)

	// "<" alone has no matching ">", so it's typed as literal text;
	// 'a' still resolves via the keymap, the bare '<' is skipped since
	// this test keymap has no entry for it.
	events, err := ty.Type("a<")
	require.NoError(t, err)
	require.NotEmpty(t, events)
}
