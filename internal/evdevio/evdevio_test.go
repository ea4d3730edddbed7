//go:build linux

package evdevio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/evcodes"
)

func TestTestBit(t *testing.T) {
	buf := []byte{0b00000100}
	require.True(t, testBit(buf, 2))
	require.False(t, testBit(buf, 0))
	require.False(t, testBit(buf, 3))
}

func TestDecodeRaw(t *testing.T) {
	buf := make([]byte, rawEventSize)
	binary.LittleEndian.PutUint64(buf[0:8], 1234)
	binary.LittleEndian.PutUint64(buf[8:16], 5678)
	binary.LittleEndian.PutUint16(buf[16:18], evcodes.EV_KEY)
	binary.LittleEndian.PutUint16(buf[18:20], evcodes.KEY_A)
	binary.LittleEndian.PutUint32(buf[20:24], 1)

	raw := decodeRaw(buf)
	require.Equal(t, int64(1234), raw.Sec)
	require.Equal(t, int64(5678), raw.Usec)
	require.Equal(t, uint16(evcodes.EV_KEY), raw.Type)
	require.Equal(t, uint16(evcodes.KEY_A), raw.Code)
	require.Equal(t, int32(1), raw.Value)
}

func TestDeviceNameFallsBackToPathOnIoctlFailure(t *testing.T) {
	dev := &Device{Path: "/dev/input/event99", fd: -1}
	require.Equal(t, "/dev/input/event99", dev.DeviceName())
}
