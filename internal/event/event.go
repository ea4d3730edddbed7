//go:build linux

// Package event defines the in-process representation of a single input
// event as it flows through a foresight pipeline, plus the helpers stages
// use to classify one.
package event

import (
	"time"

	"github.com/moisrex/foresight/internal/evcodes"
)

// Event is the decoded form of a kernel input_event record. Stages read
// and mutate a pointer to one of these as it travels through a pipeline;
// stages that measure intervals between events (such as the multi-click
// trigger) read Time.
type Event struct {
	// Time is the kernel-reported timestamp of the event.
	Time time.Time

	// Type is the event category: EV_SYN, EV_KEY, EV_REL, EV_ABS, and so on.
	Type uint16

	// Code identifies the axis or key within Type.
	Code uint16

	// Value carries the event payload: 0/1/2 for key state, a delta for
	// relative motion, a position for absolute motion.
	Value int32
}

// IsSyn reports whether ev is an EV_SYN / SYN_REPORT event, the delimiter
// the kernel inserts between logically grouped events.
func (ev *Event) IsSyn() bool {
	return ev.Type == evcodes.EV_SYN && ev.Code == evcodes.SYN_REPORT
}

// IsKey reports whether ev is a key or button event.
func (ev *Event) IsKey() bool {
	return ev.Type == evcodes.EV_KEY
}

// IsMouseMovement reports whether ev is relative or absolute pointer
// motion: REL_X, REL_Y, ABS_X, or ABS_Y. Stages use this to distinguish
// pointer-motion events from everything else without special-casing each
// axis individually.
func (ev *Event) IsMouseMovement() bool {
	switch ev.Type {
	case evcodes.EV_REL:
		return ev.Code == evcodes.REL_X || ev.Code == evcodes.REL_Y
	case evcodes.EV_ABS:
		return ev.Code == evcodes.ABS_X || ev.Code == evcodes.ABS_Y
	default:
		return false
	}
}

// IsPress reports whether ev is a key-down transition (Value == 1).
func (ev *Event) IsPress() bool {
	return ev.IsKey() && ev.Value == 1
}

// IsRelease reports whether ev is a key-up transition (Value == 0).
func (ev *Event) IsRelease() bool {
	return ev.IsKey() && ev.Value == 0
}

// IsRepeat reports whether ev is an autorepeat event (Value == 2).
func (ev *Event) IsRepeat() bool {
	return ev.IsKey() && ev.Value == 2
}

// Syn returns the SYN_REPORT delimiter event, timestamped now.
func Syn() Event {
	return Event{Time: time.Now(), Type: evcodes.EV_SYN, Code: evcodes.SYN_REPORT, Value: 0}
}

// Key returns a key event of the given code and value, timestamped now.
func Key(code uint16, value int32) Event {
	return Event{Time: time.Now(), Type: evcodes.EV_KEY, Code: code, Value: value}
}
