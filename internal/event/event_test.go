//go:build linux

package event

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/evcodes"
)

func TestSynIsRecognizedAsSyn(t *testing.T) {
	ev := Syn()
	require.True(t, ev.IsSyn())
	require.False(t, ev.IsKey())
}

func TestKeyTransitions(t *testing.T) {
	press := Key(evcodes.KEY_A, 1)
	require.True(t, press.IsPress())
	require.False(t, press.IsRelease())

	release := Key(evcodes.KEY_A, 0)
	require.True(t, release.IsRelease())

	repeat := Key(evcodes.KEY_A, 2)
	require.True(t, repeat.IsRepeat())
}

func TestIsMouseMovement(t *testing.T) {
	relX := Event{Type: evcodes.EV_REL, Code: evcodes.REL_X}
	require.True(t, relX.IsMouseMovement())

	relWheel := Event{Type: evcodes.EV_REL, Code: evcodes.REL_WHEEL}
	require.False(t, relWheel.IsMouseMovement())

	absY := Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_Y}
	require.True(t, absY.IsMouseMovement())

	key := Event{Type: evcodes.EV_KEY, Code: evcodes.KEY_A}
	require.False(t, key.IsMouseMovement())
}
