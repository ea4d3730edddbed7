package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewParsesKnownLevel(t *testing.T) {
	logger := New("debug")
	require.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestNewFallsBackToInfoOnUnknownLevel(t *testing.T) {
	logger := New("not-a-real-level")
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewDisabledLevel(t *testing.T) {
	logger := New("disabled")
	require.Equal(t, zerolog.Disabled, logger.GetLevel())
}
