//go:build linux

// Package uinput implements the emitter side of the pipeline: a virtual
// input device created through /dev/uinput that replays the events a
// pipeline produces as if a real keyboard or pointer generated them.
package uinput

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/event"
	"github.com/moisrex/foresight/internal/ferr"
	"github.com/moisrex/foresight/internal/ioctl"
	"github.com/moisrex/foresight/internal/pipeline"
)

const uinputMaxNameSize = 80

var (
	uiSetEVBit  = ioctl.IOW('U', 100, int(0))
	uiSetKeyBit = ioctl.IOW('U', 101, int(0))
	uiSetRelBit = ioctl.IOW('U', 102, int(0))
	uiSetAbsBit = ioctl.IOW('U', 103, int(0))
	uiDevCreate = ioctl.IO('U', 1)
	uiDevDestroy = ioctl.IO('U', 2)
	uiDevSetup  = ioctl.IOW('U', 3, uinputSetup{})
	uiAbsSetup  = ioctl.IOW('U', 4, uinputAbsSetup{})
)

type uinputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputSetup struct {
	ID        uinputID
	Name      [uinputMaxNameSize]byte
	FFEffects uint32
}

type uinputAbsSetup struct {
	Code uint16
	_    [2]byte // alignment padding: absinfo.Value is a 4-byte-aligned int32
	Info absInfo
}

type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// AbsAxis describes one absolute axis the virtual device should expose.
type AbsAxis struct {
	Code       uint16
	Min, Max   int32
	Fuzz, Flat int32
	Resolution int32
}

// Capabilities describes the event surface a virtual device should
// advertise before it is created; UI_DEV_CREATE fails if none of
// EV_KEY/EV_REL/EV_ABS is set.
type Capabilities struct {
	Name    string
	Keys    []uint16
	Rel     []uint16
	Abs     []AbsAxis
}

// Device is a virtual input device backed by /dev/uinput. It implements
// [pipeline.Emitter], [pipeline.Starter], and [pipeline.Stopper].
type Device struct {
	caps Capabilities
	fd   int

	keySet map[uint16]bool
	relSet map[uint16]bool
	absSet map[uint16]bool
}

var (
	_ pipeline.Emitter = (*Device)(nil)
	_ pipeline.Starter = (*Device)(nil)
	_ pipeline.Stopper = (*Device)(nil)
)

// New returns an unconfigured Device without opening anything. Call Start
// (or run it inside a [pipeline.Pipeline]) to open /dev/uinput, register
// capabilities and issue UI_DEV_CREATE.
func New(caps Capabilities) *Device {
	return &Device{caps: caps}
}

// Name satisfies [pipeline.Stage].
func (d *Device) Name() string { return "uinput.Device(" + d.caps.Name + ")" }

// Start opens /dev/uinput, registers every capability bit, and issues
// UI_DEV_SETUP + UI_DEV_CREATE.
func (d *Device) Start(ctx *pipeline.Context) error {
	fd, err := unix.Open("/dev/uinput", unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("uinput.Start: %w: %w", ferr.DeviceUnavailable, err)
	}
	d.fd = fd

	d.keySet = make(map[uint16]bool, len(d.caps.Keys))
	d.relSet = make(map[uint16]bool, len(d.caps.Rel))
	d.absSet = make(map[uint16]bool, len(d.caps.Abs))

	if len(d.caps.Keys) > 0 {
		if err := d.ioctlArg(uiSetEVBit, int(evcodes.EV_KEY)); err != nil {
			return d.fail("UI_SET_EVBIT(EV_KEY)", err)
		}
		for _, k := range d.caps.Keys {
			if err := d.ioctlArg(uiSetKeyBit, int(k)); err != nil {
				return d.fail("UI_SET_KEYBIT", err)
			}
			d.keySet[k] = true
		}
	}

	if len(d.caps.Rel) > 0 {
		if err := d.ioctlArg(uiSetEVBit, int(evcodes.EV_REL)); err != nil {
			return d.fail("UI_SET_EVBIT(EV_REL)", err)
		}
		for _, r := range d.caps.Rel {
			if err := d.ioctlArg(uiSetRelBit, int(r)); err != nil {
				return d.fail("UI_SET_RELBIT", err)
			}
			d.relSet[r] = true
		}
	}

	if len(d.caps.Abs) > 0 {
		if err := d.ioctlArg(uiSetEVBit, int(evcodes.EV_ABS)); err != nil {
			return d.fail("UI_SET_EVBIT(EV_ABS)", err)
		}
		for _, a := range d.caps.Abs {
			if err := d.ioctlArg(uiSetAbsBit, int(a.Code)); err != nil {
				return d.fail("UI_SET_ABSBIT", err)
			}
			setup := uinputAbsSetup{
				Code: a.Code,
				Info: absInfo{Minimum: a.Min, Maximum: a.Max, Fuzz: a.Fuzz, Flat: a.Flat, Resolution: a.Resolution},
			}
			if err := ioctl.Any(uintptr(d.fd), uiAbsSetup, &setup); err != nil {
				return d.fail("UI_ABS_SETUP", err)
			}
			d.absSet[a.Code] = true
		}
	}

	setup := uinputSetup{ID: uinputID{Bustype: evcodes.BUS_VIRTUAL, Version: 1}}
	name := d.caps.Name
	if name == "" {
		name = "foresight"
	}
	copy(setup.Name[:], name)

	if err := ioctl.Any(uintptr(d.fd), uiDevSetup, &setup); err != nil {
		return d.fail("UI_DEV_SETUP", err)
	}

	if err := ioctl.Any[struct{}](uintptr(d.fd), uiDevCreate, nil); err != nil {
		return d.fail("UI_DEV_CREATE", err)
	}

	return nil
}

func (d *Device) ioctlArg(req uint, val int) error {
	v := val
	return ioctl.Any(uintptr(d.fd), req, &v)
}

func (d *Device) fail(step string, err error) error {
	unix.Close(d.fd)
	return fmt.Errorf("uinput.Start: %s: %w", step, err)
}

// Supports reports whether the device was configured to carry the given
// EV_KEY/EV_REL/EV_ABS code.
func (d *Device) Supports(evType, code uint16) bool {
	switch evType {
	case evcodes.EV_KEY:
		return d.keySet[code]
	case evcodes.EV_REL:
		return d.relSet[code]
	case evcodes.EV_ABS:
		return d.absSet[code]
	default:
		return evType == evcodes.EV_SYN
	}
}

// Emit writes the current event to the virtual device. Writing a code
// outside the device's registered capabilities is a caller error, not a
// device failure, so it reports ferr.InvalidArgument rather than
// retrying. A write that fails with EAGAIN is attempted up to
// ferr.MaxWriteRetries times in total before it escalates to
// ferr.IOFatal; any other write error escalates at once.
func (d *Device) Emit(ctx *pipeline.Context) (pipeline.Action, error) {
	ev := ctx.Event

	if !ev.IsSyn() && !d.Supports(ev.Type, ev.Code) {
		return pipeline.IgnoreEvent, fmt.Errorf("uinput.Emit: type %d code %d: %w", ev.Type, ev.Code, ferr.InvalidArgument)
	}

	buf := encodeEvent(ev)

	var err error
	for attempt := 0; attempt < ferr.MaxWriteRetries; attempt++ {
		_, err = unix.Write(d.fd, buf)
		if err == nil {
			return pipeline.Next, nil
		}
		if err != unix.EAGAIN {
			break
		}
	}

	return pipeline.Exit, fmt.Errorf("uinput.Emit: %w: %w", ferr.IOFatal, err)
}

func encodeEvent(ev event.Event) []byte {
	var buf bytes.Buffer

	sec := ev.Time.Unix()
	usec := ev.Time.Nanosecond() / 1000

	binary.Write(&buf, binary.LittleEndian, int64(sec))
	binary.Write(&buf, binary.LittleEndian, int64(usec))
	binary.Write(&buf, binary.LittleEndian, ev.Type)
	binary.Write(&buf, binary.LittleEndian, ev.Code)
	binary.Write(&buf, binary.LittleEndian, ev.Value)

	return buf.Bytes()
}

// Close issues UI_DEV_DESTROY and closes the /dev/uinput fd.
func (d *Device) Close() error {
	_ = ioctl.Any[struct{}](uintptr(d.fd), uiDevDestroy, nil)
	if err := unix.Close(d.fd); err != nil {
		return fmt.Errorf("uinput.Close: %w", err)
	}
	return nil
}
