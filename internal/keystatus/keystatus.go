// Package keystatus tracks the current press state of every key and LED
// code so later stages (chord triggers, typists) can ask "is this key
// down right now" without replaying history themselves.
package keystatus

import (
	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/pipeline"
)

// Tracker is a fixed-size table of key and LED states, updated in place
// as EV_KEY and EV_LED events pass through. It implements
// [pipeline.Observer]; it never mutates or drops the event, it only
// watches it go by.
type Tracker struct {
	keys [evcodes.KEY_MAX + 1]bool
	leds [evcodes.LED_MAX + 1]bool
}

var _ pipeline.Observer = (*Tracker)(nil)

// NewTracker returns an empty Tracker with every key and LED reporting
// released/off.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Name satisfies [pipeline.Stage].
func (t *Tracker) Name() string { return "keystatus.Tracker" }

// Observe updates the table from the current event and always reports
// pipeline.Next: a status tracker never filters events, only watches them.
func (t *Tracker) Observe(ctx *pipeline.Context) (pipeline.Action, error) {
	ev := ctx.Event

	switch ev.Type {
	case evcodes.EV_KEY:
		if int(ev.Code) < len(t.keys) {
			t.keys[ev.Code] = ev.Value != 0
		}
	case evcodes.EV_LED:
		if int(ev.Code) < len(t.leds) {
			t.leds[ev.Code] = ev.Value != 0
		}
	}

	return pipeline.Next, nil
}

// IsPressed reports whether the given key code is currently held down.
func (t *Tracker) IsPressed(code uint16) bool {
	if int(code) >= len(t.keys) {
		return false
	}
	return t.keys[code]
}

// IsReleased is the complement of IsPressed.
func (t *Tracker) IsReleased(code uint16) bool {
	return !t.IsPressed(code)
}

// IsOn reports whether the given LED code is currently lit.
func (t *Tracker) IsOn(code uint16) bool {
	if int(code) >= len(t.leds) {
		return false
	}
	return t.leds[code]
}

// IsOff is the complement of IsOn.
func (t *Tracker) IsOff(code uint16) bool {
	return !t.IsOn(code)
}

// AllPressed reports whether every code in codes is currently held down;
// used by the chord trigger to test a modifier combination.
func (t *Tracker) AllPressed(codes ...uint16) bool {
	for _, c := range codes {
		if !t.IsPressed(c) {
			return false
		}
	}
	return true
}
