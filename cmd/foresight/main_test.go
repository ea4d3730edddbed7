package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllKeycodesCoversStandardRange(t *testing.T) {
	codes := allKeycodes()
	require.Len(t, codes, 254)
	require.Equal(t, uint16(1), codes[0])
}

func TestRunWithNoArgsPrintsHelpAndFails(t *testing.T) {
	require.Equal(t, 1, run(nil))
}

func TestRunHelpSucceeds(t *testing.T) {
	require.Equal(t, 0, run([]string{"help"}))
}

func TestRunUnknownActionFails(t *testing.T) {
	require.Equal(t, 1, run([]string{"bogus"}))
}
