//go:build linux

package uinput

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/event"
)

func TestEncodeEventLayout(t *testing.T) {
	ts := time.Unix(100, 2000) // 2000ns = 2us
	ev := event.Event{Time: ts, Type: evcodes.EV_KEY, Code: evcodes.KEY_A, Value: 1}

	buf := encodeEvent(ev)
	require.Len(t, buf, 8+8+2+2+4)

	require.Equal(t, int64(100), int64(binary.LittleEndian.Uint64(buf[0:8])))
	require.Equal(t, int64(2), int64(binary.LittleEndian.Uint64(buf[8:16])))
	require.Equal(t, uint16(evcodes.EV_KEY), binary.LittleEndian.Uint16(buf[16:18]))
	require.Equal(t, uint16(evcodes.KEY_A), binary.LittleEndian.Uint16(buf[18:20]))
	require.Equal(t, int32(1), int32(binary.LittleEndian.Uint32(buf[20:24])))
}

func TestSupportsReportsRegisteredCapabilities(t *testing.T) {
	d := &Device{
		keySet: map[uint16]bool{evcodes.KEY_A: true},
		relSet: map[uint16]bool{evcodes.REL_X: true},
		absSet: map[uint16]bool{},
	}

	require.True(t, d.Supports(evcodes.EV_KEY, evcodes.KEY_A))
	require.False(t, d.Supports(evcodes.EV_KEY, evcodes.KEY_B))
	require.True(t, d.Supports(evcodes.EV_REL, evcodes.REL_X))
	require.False(t, d.Supports(evcodes.EV_ABS, evcodes.ABS_X))
	require.True(t, d.Supports(evcodes.EV_SYN, evcodes.SYN_REPORT))
}

func TestNameIncludesCapabilitiesName(t *testing.T) {
	d := New(Capabilities{Name: "test-device"})
	require.Equal(t, "uinput.Device(test-device)", d.Name())
}
