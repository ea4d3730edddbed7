// Package ferr defines the error sentinels shared across the foresight
// pipeline packages. Stages wrap one of these with fmt.Errorf("%w", ...)
// so callers can classify a failure with errors.Is without depending on
// the package that raised it.
package ferr

import "errors"

var (
	// InvalidArgument marks a caller error: a malformed trigger pattern,
	// an out-of-range codepoint, an unknown modifier alias.
	InvalidArgument = errors.New("invalid argument")

	// DeviceUnavailable marks a /dev/input or /dev/uinput node that could
	// not be opened.
	DeviceUnavailable = errors.New("device unavailable")

	// GrabFailure marks a failed EVIOCGRAB ioctl.
	GrabFailure = errors.New("grab failed")

	// InvalidDevice marks a device that does not expose the capabilities
	// a stage requires (e.g. no EV_KEY bit for a keyboard stage).
	InvalidDevice = errors.New("invalid device")

	// IOAgain marks a non-blocking read or write that would block. Callers
	// treat it as "no progress this tick", not a fatal error.
	IOAgain = errors.New("resource temporarily unavailable")

	// IOFatal marks an I/O error a stage cannot recover from: the device
	// node disappeared, or a write failed three times in a row.
	IOFatal = errors.New("unrecoverable i/o error")

	// DecodeFailure marks a read that returned a byte count which is not
	// a whole multiple of the kernel input_event record size.
	DecodeFailure = errors.New("malformed event record")

	// CodepointInvalid marks a rune the keymap has no direct key position
	// for (a compose sequence may still be able to type it).
	CodepointInvalid = errors.New("codepoint cannot be typed")

	// ComposeUnavailable marks a codepoint with no direct keysym and no
	// entry in the loaded compose table.
	ComposeUnavailable = errors.New("no compose sequence available")

	// ServiceInstallFailed marks a failure writing or enabling a systemd
	// user unit file.
	ServiceInstallFailed = errors.New("service install failed")
)

// MaxWriteRetries is the number of write attempts the uinput emitter makes
// for one event while the write fails with EAGAIN, before it gives up and
// reports IOFatal.
const MaxWriteRetries = 3
