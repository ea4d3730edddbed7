package hashutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFNV1aIsCaseSensitive(t *testing.T) {
	require.NotEqual(t, FNV1a("Ctrl"), FNV1a("ctrl"))
}

func TestCaseInsensitiveFNV1aFoldsASCII(t *testing.T) {
	require.Equal(t, CaseInsensitiveFNV1a("Ctrl"), CaseInsensitiveFNV1a("CTRL"))
	require.Equal(t, CaseInsensitiveFNV1a("ctrl"), CaseInsensitiveFNV1a("CtRl"))
}

func TestCaseInsensitiveFNV1aLeavesNonLettersAlone(t *testing.T) {
	require.Equal(t, CaseInsensitiveFNV1a("left-shift"), CaseInsensitiveFNV1a("Left-Shift"))
}
