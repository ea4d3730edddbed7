//go:build linux

// Package evdevio implements the producer side of the pipeline: opening
// one or more /dev/input/eventN nodes, optionally grabbing them
// exclusively, and decoding the raw input_event records the kernel
// writes into them.
package evdevio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/event"
	"github.com/moisrex/foresight/internal/ferr"
	"github.com/moisrex/foresight/internal/ioctl"
	"github.com/moisrex/foresight/internal/pipeline"
)

// rawEvent mirrors struct input_event on a 64-bit little-endian Linux
// build: two timeval fields followed by type/code/value.
type rawEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

var rawEventSize = int(unsafe.Sizeof(rawEvent{}))

var (
	eviocgrab = ioctl.IOW('E', 0x90, int(0))
	eviocgbit = func(ev, length uint) uint { return ioctl.IOC(ioctl.DirRead, 'E', 0x20+ev, length) }
)

// Device is a single opened evdev node. It implements
// [pipeline.Producer], [pipeline.Starter], and [pipeline.Stopper].
type Device struct {
	Path string
	Grab bool

	file *os.File
	fd   int
}

var (
	_ pipeline.Producer = (*Device)(nil)
	_ pipeline.Starter  = (*Device)(nil)
	_ pipeline.Stopper  = (*Device)(nil)
)

// Open opens path for non-blocking read/write and, when grab is true,
// exclusively grabs the device via EVIOCGRAB so other listeners (and the
// X/Wayland compositor) stop seeing its events.
func Open(path string, grab bool) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("evdevio.Open: %s: %w: %w", path, ferr.DeviceUnavailable, err)
	}

	dev := &Device{
		Path: path,
		Grab: grab,
		file: os.NewFile(uintptr(fd), path),
		fd:   fd,
	}

	if grab {
		if err := dev.setGrab(1); err != nil {
			dev.file.Close()
			return nil, fmt.Errorf("evdevio.Open: %s: %w: %w", path, ferr.GrabFailure, err)
		}
	}

	return dev, nil
}

// Devices globs /dev/input/event* and opens every node found.
func Devices(grab bool) ([]*Device, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("evdevio.Devices: %w", err)
	}

	devices := make([]*Device, 0, len(paths))
	for _, path := range paths {
		dev, err := Open(path, grab)
		if err != nil {
			for _, d := range devices {
				d.Close()
			}
			return nil, err
		}
		devices = append(devices, dev)
	}

	return devices, nil
}

func (dev *Device) setGrab(val int) error {
	return ioctl.Any(uintptr(dev.fd), eviocgrab, &val)
}

// DeviceName returns the human-readable device name via EVIOCGNAME.
func (dev *Device) DeviceName() string {
	var buf [256]byte
	req := ioctl.IOC(ioctl.DirRead, 'E', 0x06, uint(len(buf)))
	if err := ioctl.Any(uintptr(dev.fd), req, &buf[0]); err != nil {
		return dev.Path
	}
	return unix.ByteSliceToString(buf[:])
}

// HasEventType reports whether the device advertises the given EV_* type
// in its EVIOCGBIT(0, ...) capability bitmask.
func (dev *Device) HasEventType(evType uint16) bool {
	buf := make([]byte, (evcodes.EV_MAX+7)/8)
	if err := ioctl.Any(uintptr(dev.fd), eviocgbit(0, uint(len(buf))), &buf[0]); err != nil {
		return false
	}
	return testBit(buf, uint(evType))
}

func testBit(b []byte, pos uint) bool {
	return b[pos/8]&(1<<(pos%8)) != 0
}

// EventTypes reports every EV_* type the device's EVIOCGBIT(0, ...)
// bitmask advertises, in ascending order.
func (dev *Device) EventTypes() []uint16 {
	var types []uint16
	for t := uint16(0); t <= evcodes.EV_MAX; t++ {
		if dev.HasEventType(t) {
			types = append(types, t)
		}
	}
	return types
}

// Codes reports every code bit set for evType in the device's
// EVIOCGBIT(evType, ...) capability bitmask, in ascending order, up to
// (but excluding) max. Used to mirror a source device's key/axis
// capability set onto a virtual uinput sink instead of hardcoding one.
func (dev *Device) Codes(evType uint16, max uint16) []uint16 {
	buf := make([]byte, (int(max)+7)/8)
	if err := ioctl.Any(uintptr(dev.fd), eviocgbit(uint(evType), uint(len(buf))), &buf[0]); err != nil {
		return nil
	}

	var codes []uint16
	for c := uint16(0); c < max; c++ {
		if testBit(buf, uint(c)) {
			codes = append(codes, c)
		}
	}
	return codes
}

// Fd returns the underlying file descriptor, for use with unix.Poll when
// multiplexing several devices.
func (dev *Device) Fd() int { return dev.fd }

// Start satisfies [pipeline.Starter]; Open already performed setup, so
// this is a no-op retained for symmetry with Close.
func (dev *Device) Start(ctx *pipeline.Context) error { return nil }

// Produce reads one input_event record, decodes it into ctx.Event, and
// reports pipeline.Next. A would-block read (no data pending, since the
// fd is non-blocking) reports pipeline.Idle rather than an error.
func (dev *Device) Produce(ctx *pipeline.Context) (pipeline.Action, error) {
	var buf [64]byte // rawEventSize fits comfortably

	n, err := unix.Read(dev.fd, buf[:rawEventSize])
	if err != nil {
		if err == unix.EAGAIN {
			return pipeline.Idle, nil
		}
		return pipeline.Idle, fmt.Errorf("evdevio.Produce: %s: %w: %w", dev.Path, ferr.IOFatal, err)
	}

	if n == 0 {
		return pipeline.Idle, fmt.Errorf("evdevio.Produce: %s: %w", dev.Path, ferr.DeviceUnavailable)
	}

	if n != rawEventSize {
		return pipeline.Idle, fmt.Errorf("evdevio.Produce: %s: %w", dev.Path, ferr.DecodeFailure)
	}

	raw := decodeRaw(buf[:n])
	ctx.Event = event.Event{
		Time:  time.Unix(raw.Sec, raw.Usec*1000),
		Type:  raw.Type,
		Code:  raw.Code,
		Value: raw.Value,
	}

	return pipeline.Next, nil
}

func decodeRaw(b []byte) rawEvent {
	return rawEvent{
		Sec:   int64(binary.LittleEndian.Uint64(b[0:8])),
		Usec:  int64(binary.LittleEndian.Uint64(b[8:16])),
		Type:  binary.LittleEndian.Uint16(b[16:18]),
		Code:  binary.LittleEndian.Uint16(b[18:20]),
		Value: int32(binary.LittleEndian.Uint32(b[20:24])),
	}
}

// EncodeEvent serializes ev into the wire format evdev and uinput nodes
// both read and write: a struct input_event record.
func EncodeEvent(ev event.Event) []byte {
	buf := make([]byte, rawEventSize)

	usec := ev.Time.UnixMicro()
	sec := usec / 1_000_000
	usec -= sec * 1_000_000

	binary.LittleEndian.PutUint64(buf[0:8], uint64(sec))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(usec))
	binary.LittleEndian.PutUint16(buf[16:18], ev.Type)
	binary.LittleEndian.PutUint16(buf[18:20], ev.Code)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(ev.Value))

	return buf
}

// DecodeEvent reads one input_event record from r and decodes it into an
// event.Event. Used by stages that receive an event stream over a plain
// io.Reader, such as redirect's stdin source, rather than an evdev fd.
func DecodeEvent(r io.Reader) (event.Event, error) {
	buf := make([]byte, rawEventSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return event.Event{}, err
	}

	raw := decodeRaw(buf)
	return event.Event{
		Time:  time.Unix(raw.Sec, raw.Usec*1000),
		Type:  raw.Type,
		Code:  raw.Code,
		Value: raw.Value,
	}, nil
}

// Name satisfies [pipeline.Stage].
func (dev *Device) Name() string { return "evdevio.Device(" + dev.Path + ")" }

// Close ungrabs (if grabbed) and closes the device file. Ungrab always
// runs, even if it fails, so the fd close is never skipped.
func (dev *Device) Close() error {
	if dev.Grab {
		_ = dev.setGrab(0)
	}
	if err := dev.file.Close(); err != nil {
		return fmt.Errorf("evdevio.Close: %s: %w", dev.Path, err)
	}
	return nil
}

// Multiplexer is a single Producer stage that polls several Devices at
// once via unix.Poll, so a pipeline reading from more than one input
// node fetches from whichever device is ready, in poll order, instead of
// giving every device its own stage slot (which would let device N+1's
// event clobber device N's on the same tick).
type Multiplexer struct {
	devices []*Device

	// next is the index to start the ready-fd scan from, advanced past
	// whichever device was served last tick so a device that is always
	// ready can't starve the others.
	next int
}

var (
	_ pipeline.Producer = (*Multiplexer)(nil)
	_ pipeline.Starter  = (*Multiplexer)(nil)
	_ pipeline.Stopper  = (*Multiplexer)(nil)
)

// NewMultiplexer builds a Multiplexer over the given devices.
func NewMultiplexer(devices []*Device) *Multiplexer {
	return &Multiplexer{devices: devices}
}

// Name satisfies [pipeline.Stage].
func (m *Multiplexer) Name() string { return "evdevio.Multiplexer" }

// Start satisfies [pipeline.Starter]; the devices are already open by the
// time they're handed to NewMultiplexer.
func (m *Multiplexer) Start(ctx *pipeline.Context) error { return nil }

// Close closes every multiplexed device, returning the first error
// encountered but still attempting to close the rest.
func (m *Multiplexer) Close() error {
	var firstErr error
	for _, d := range m.devices {
		if err := d.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Produce polls every device's descriptor for readability and fetches
// from the first ready one found scanning from m.next, the device after
// whichever was served last tick. A read error from any device (its node
// disappeared, e.g. unplugged) is returned with Exit, which ends the
// pipeline the same way the error from a single Device.Produce would.
func (m *Multiplexer) Produce(ctx *pipeline.Context) (pipeline.Action, error) {
	if len(m.devices) == 0 {
		return pipeline.Idle, nil
	}

	fds := make([]unix.PollFd, len(m.devices))
	for i, d := range m.devices {
		fds[i] = unix.PollFd{Fd: int32(d.Fd()), Events: unix.POLLIN}
	}

	n, err := unix.Poll(fds, 0)
	if err != nil {
		if err == unix.EINTR {
			return pipeline.Idle, nil
		}
		return pipeline.Idle, fmt.Errorf("evdevio.Multiplexer.Produce: poll: %w", err)
	}
	if n == 0 {
		return pipeline.Idle, nil
	}

	for i := 0; i < len(m.devices); i++ {
		idx := (m.next + i) % len(m.devices)
		if fds[idx].Revents&unix.POLLIN == 0 {
			continue
		}

		action, err := m.devices[idx].Produce(ctx)
		if err != nil {
			return pipeline.Exit, err
		}

		switch action {
		case pipeline.Next:
			m.next = (idx + 1) % len(m.devices)
			return pipeline.Next, nil
		case pipeline.Exit:
			return pipeline.Exit, nil
		default:
			// Idle: this device's fd was marked ready but the read came
			// back EAGAIN anyway (e.g. the event it signalled was
			// already drained by a previous tick). Try the next one.
		}
	}

	return pipeline.Idle, nil
}
