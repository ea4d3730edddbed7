//go:build linux

// Package ioctl implements the request-code encoding from the Linux
// kernel's asm-generic/ioctl.h and a generic syscall wrapper on top of it.
//
// From ioctl.h:
//
// ioctl command encoding: 32 bits total, command in lower 16 bits,
// size of the parameter structure in the lower 14 bits of the
// upper 16 bits.
// Encoding the size of the parameter structure in the ioctl request
// is useful for catching programs compiled with old versions
// and to avoid overwriting user space outside the user buffer area.
// The highest 2 bits are reserved for indicating the "access mode".
package ioctl

import (
	"reflect"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// NRBits is the number of bits allocated for the command number (nr)
	// field.
	NRBits = 8

	// TypeBits is the number of bits allocated for the type field.
	TypeBits = 8

	// SizeBits is the number of bits allocated for the size field.
	SizeBits = 14

	// DirBits is the number of bits allocated for the direction
	// (read/write) field.
	DirBits = 2

	NRMask   = 1<<NRBits - 1
	TypeMask = 1<<TypeBits - 1
	SizeMask = 1<<SizeBits - 1
	DirMask  = 1<<DirBits - 1

	NRShift   = 0
	TypeShift = NRShift + NRBits
	SizeShift = TypeShift + TypeBits
	DirShift  = SizeShift + SizeBits

	// DirNone specifies no data transfer for the ioctl.
	DirNone = 0

	// DirWrite specifies a write (user to kernel) transfer for the ioctl.
	DirWrite = 1

	// DirRead specifies a read (kernel to user) transfer for the ioctl.
	DirRead = 2
)

// TypeCheck returns the size in bytes of the provided value's type.
// It accepts any Go value (typically a zero value denoting the type) and
// reports the size of its dynamic type for use when constructing ioctl
// request codes.
func TypeCheck(typ any) uint {
	return uint(reflect.TypeOf(typ).Size())
}

// IOC packs the four ioctl components into a single request code.
func IOC(dir, typ, nr, size uint) uint {
	return dir<<DirShift |
		typ<<TypeShift |
		nr<<NRShift |
		size<<SizeShift
}

// IO returns an ioctl request code that carries no data.
func IO(typ, nr uint) uint {
	return IOC(DirNone, typ, nr, 0)
}

// IOR returns an ioctl request code for reading data from the kernel.
// typ is the magic identifier, nr is the command number, and argtype
// should be a zero value of the data type being transferred.
func IOR(typ, nr uint, argtype any) uint {
	return IOC(DirRead, typ, nr, TypeCheck(argtype))
}

// IOW returns an ioctl request code for writing data to the kernel.
func IOW(typ, nr uint, argtype any) uint {
	return IOC(DirWrite, typ, nr, TypeCheck(argtype))
}

// IOWR returns an ioctl request code for bidirectional data transfer.
func IOWR(typ, nr uint, argtype any) uint {
	return IOC(DirRead|DirWrite, typ, nr, TypeCheck(argtype))
}

// Dir extracts the direction bits from an ioctl request code.
func Dir(req uint) uint { return req >> DirShift & DirMask }

// Type extracts the magic/type field from an ioctl request code.
func Type(req uint) uint { return req >> TypeShift & TypeMask }

// NR extracts the command number field from an ioctl request code.
func NR(req uint) uint { return req >> NRShift & NRMask }

// Size extracts the size field, in bytes, from an ioctl request code.
func Size(req uint) uint { return req >> SizeShift & SizeMask }

// Any performs an ioctl system call on the given file descriptor. It wraps
// the raw SYS_IOCTL syscall, passing req as the ioctl request code. The arg
// parameter is an optional pointer to a value of type T: if non-nil, its
// address is sent to the kernel, so the kernel may populate *arg (read
// ioctls) or read from it (write ioctls). Passing a nil arg is valid for
// no-data ([IO]) requests. The returned error, when non-nil, is the
// underlying syscall.Errno.
func Any[T any](fd uintptr, req uint, arg *T) error {
	var errno syscall.Errno

	_, _, errno = unix.Syscall(
		unix.SYS_IOCTL,
		fd,
		uintptr(req),
		uintptr(unsafe.Pointer(arg)),
	)
	if errno != 0 {
		return errno
	}

	return nil
}
