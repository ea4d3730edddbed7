package keymap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testLayout() *Keymap {
	return New(map[int][]string{
		// xkb keycode 38 = evdev KEY_A (30)
		38: {"a", "A"},
		// xkb keycode 19 = evdev KEY_0 (11)
		19: {"1", "!"},
	})
}

func TestHow2TypeBareLevel(t *testing.T) {
	km := testLayout()

	events, err := km.How2Type('a')
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.False(t, events[0].Press == false && events[0].Syn == false)

	// bare level should carry no modifier press before the key press
	require.False(t, events[0].Syn)
	require.Equal(t, uint16(30), events[0].Code)
	require.True(t, events[0].Press)
}

func TestHow2TypeShiftedLevelPressesModifier(t *testing.T) {
	km := testLayout()

	events, err := km.How2Type('A')
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.Equal(t, uint16(42), events[0].Code) // KEY_LEFTSHIFT
	require.True(t, events[0].Press)
}

func TestHow2TypeUnknownRune(t *testing.T) {
	km := testLayout()
	_, err := km.How2Type('z')
	require.Error(t, err)
}

func TestHow2TypeBareLevelHasTwoSyns(t *testing.T) {
	km := testLayout()

	events, err := km.How2Type('a')
	require.NoError(t, err)

	syns := 0
	for _, e := range events {
		if e.Syn {
			syns++
		}
	}
	require.Equal(t, 2, syns)
}

func TestHow2TypeShiftedLevelHasFourSynsInOrder(t *testing.T) {
	km := testLayout()

	events, err := km.How2Type('A')
	require.NoError(t, err)

	var synIdx []int
	for i, e := range events {
		if e.Syn {
			synIdx = append(synIdx, i)
		}
	}
	require.Len(t, synIdx, 4)

	// group 1: modifier press(es), ending with a SYN
	require.True(t, events[synIdx[0]-1].Press && !events[synIdx[0]-1].Syn)
	// group 2: main key press, ending with a SYN
	require.True(t, events[synIdx[1]-1].Press && events[synIdx[1]-1].Code == 30)
	// group 3: main key release, ending with a SYN
	require.False(t, events[synIdx[2]-1].Press)
	require.Equal(t, uint16(30), events[synIdx[2]-1].Code)
	// group 4: modifier release(s), ending with a SYN
	require.False(t, events[synIdx[3]-1].Press)
	require.Equal(t, uint16(42), events[synIdx[3]-1].Code)
}

func TestReverseMatchesLookup(t *testing.T) {
	km := testLayout()

	r, ok := km.Reverse(30)
	require.True(t, ok)
	require.Equal(t, 'a', r)

	r, ok = km.Reverse(30, 42) // held with KEY_LEFTSHIFT
	require.True(t, ok)
	require.Equal(t, 'A', r)
}

func TestReverseUnknownKeycode(t *testing.T) {
	km := testLayout()
	_, ok := km.Reverse(999)
	require.False(t, ok)
}

func TestLookupPrefersLowestLevel(t *testing.T) {
	km := New(map[int][]string{
		38: {"x", ""},
		19: {"", "x"},
	})

	pos, ok := km.Lookup('x')
	require.True(t, ok)
	require.Equal(t, 0, pos.Level)
}
