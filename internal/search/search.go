// Package search implements the trigger engine: a bounded history of
// recently typed codepoints plus the typed/chord/multi-click/swipe
// trigger predicates that pipeline stages register callbacks against.
//
// The typed() trigger here is a deliberate departure from the program
// this pipeline design is modeled on. That implementation hashed the
// entire recent-codepoint buffer with a single rolling accumulator and
// compared it against a hash of the target string, which collides
// whenever two different buffer contents happen to hash equal and,
// worse, can never distinguish "abcX" from "Xabc" reliably once the
// window slides. This package instead keeps the raw buffer and compares
// the trailing suffix of it against each registered pattern directly:
// more comparisons, but no false positives and no false negatives.
package search

import (
	"time"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/pipeline"
)

// defaultCapacity is the number of recent codepoints kept when a Buffer
// is constructed with NewBuffer.
const defaultCapacity = 500

// Buffer is a bounded ring of recently typed runes.
type Buffer struct {
	data   []rune
	cap    int
	pushes int
}

// NewBuffer returns an empty Buffer with the default capacity.
func NewBuffer() *Buffer {
	return &Buffer{cap: defaultCapacity}
}

// NewBufferSize returns an empty Buffer with the given capacity.
func NewBufferSize(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Buffer{cap: capacity}
}

// Push appends r to the buffer, dropping the oldest rune once capacity
// is exceeded.
func (b *Buffer) Push(r rune) {
	b.pushes++
	b.data = append(b.data, r)
	if len(b.data) > b.cap {
		b.data = b.data[len(b.data)-b.cap:]
	}
}

// HasSuffix reports whether the buffer's most recently typed runes equal
// pattern exactly, by comparing the trailing len(pattern) runes of the
// buffer directly against it. Returns false, without panicking, when the
// buffer is shorter than pattern.
func (b *Buffer) HasSuffix(pattern []rune) bool {
	if len(pattern) == 0 || len(pattern) > len(b.data) {
		return false
	}

	tail := b.data[len(b.data)-len(pattern):]
	for i := range pattern {
		if tail[i] != pattern[i] {
			return false
		}
	}

	return true
}

// TypedTrigger fires its callback once every time Observe sees the
// buffer's suffix match Pattern. It does not reset the buffer on a
// match: "aa" typed once satisfies a Pattern of "a" twice in a row, the
// same way a human reading the keystroke log would see it.
type TypedTrigger struct {
	Pattern  []rune
	OnMatch  func()
	buffer   *Buffer
	lastHit  int
}

// NewTypedTrigger returns a trigger watching buffer for pattern.
func NewTypedTrigger(buffer *Buffer, pattern string, onMatch func()) *TypedTrigger {
	return &TypedTrigger{Pattern: []rune(pattern), OnMatch: onMatch, buffer: buffer, lastHit: -1}
}

// Name satisfies [pipeline.Stage].
func (t *TypedTrigger) Name() string { return "search.TypedTrigger" }

var _ pipeline.Observer = (*TypedTrigger)(nil)

// Observe checks the buffer after every event and fires OnMatch at most
// once per rune pushed into the buffer, so a steady suffix match across
// multiple ticks (nothing new typed) does not refire.
func (t *TypedTrigger) Observe(ctx *pipeline.Context) (pipeline.Action, error) {
	if t.buffer.HasSuffix(t.Pattern) && t.buffer.pushes != t.lastHit {
		t.lastHit = t.buffer.pushes
		if t.OnMatch != nil {
			t.OnMatch()
		}
	}
	return pipeline.Next, nil
}

// keymapReverser is the narrow view of *keymap.Keymap KeyFeeder needs, so
// this package doesn't have to import keymap just for one method.
type keymapReverser interface {
	Reverse(keycode uint16, heldModifiers ...uint16) (rune, bool)
}

// keyHeldChecker is the narrow view of *keystatus.Tracker KeyFeeder needs
// to resolve which keymap level a press currently sits at.
type keyHeldChecker interface {
	IsPressed(code uint16) bool
}

// feederModifiers are the evdev keycodes KeyFeeder checks to pick the
// keymap level a press resolves against: KEY_LEFTSHIFT, KEY_RIGHTSHIFT,
// KEY_RIGHTALT.
var feederModifiers = []uint16{42, 54, 100}

// KeyFeeder is an Observer stage that, on every key-press event, performs
// a reverse keymap lookup to recover the codepoint the press would type
// and pushes it into a Buffer — the mechanism that keeps TypedTrigger fed
// with live data instead of only the codepoints tests push directly.
type KeyFeeder struct {
	Keymap  keymapReverser
	Tracker keyHeldChecker
	Buffer  *Buffer
}

var _ pipeline.Observer = (*KeyFeeder)(nil)

// NewKeyFeeder returns a feeder that translates presses via km, resolved
// against tracker's currently-held modifiers, into buffer.
func NewKeyFeeder(km keymapReverser, tracker keyHeldChecker, buffer *Buffer) *KeyFeeder {
	return &KeyFeeder{Keymap: km, Tracker: tracker, Buffer: buffer}
}

// Name satisfies [pipeline.Stage].
func (f *KeyFeeder) Name() string { return "search.KeyFeeder" }

// Observe pushes the translated codepoint of every key press into
// Buffer. Releases, repeats, and presses with no keymap entry (function
// keys, arrows, anything that isn't a typed character) are ignored.
func (f *KeyFeeder) Observe(ctx *pipeline.Context) (pipeline.Action, error) {
	ev := ctx.Event
	if !ev.IsPress() {
		return pipeline.Next, nil
	}

	var held []uint16
	for _, m := range feederModifiers {
		if f.Tracker.IsPressed(m) {
			held = append(held, m)
		}
	}

	if r, ok := f.Keymap.Reverse(ev.Code, held...); ok {
		f.Buffer.Push(r)
	}

	return pipeline.Next, nil
}

// ChordTrigger fires OnMatch when every code in Codes is simultaneously
// pressed, using a keystatus tracker to check.
type ChordTrigger struct {
	Codes   []uint16
	OnMatch func()
	tracker interface{ AllPressed(...uint16) bool }
	wasDown bool
}

var _ pipeline.Observer = (*ChordTrigger)(nil)

// NewChordTrigger returns a trigger watching tracker for every code in
// codes being held at once. tracker is typically a *keystatus.Tracker;
// it is accepted as a narrow interface here so this package does not
// need to import keystatus just for one method.
func NewChordTrigger(tracker interface{ AllPressed(...uint16) bool }, codes []uint16, onMatch func()) *ChordTrigger {
	return &ChordTrigger{Codes: codes, OnMatch: onMatch, tracker: tracker}
}

// Name satisfies [pipeline.Stage].
func (c *ChordTrigger) Name() string { return "search.ChordTrigger" }

// Observe fires OnMatch on the rising edge of the chord being fully
// pressed, not on every tick it remains held.
func (c *ChordTrigger) Observe(ctx *pipeline.Context) (pipeline.Action, error) {
	down := c.tracker.AllPressed(c.Codes...)
	if down && !c.wasDown && c.OnMatch != nil {
		c.OnMatch()
	}
	c.wasDown = down
	return pipeline.Next, nil
}

// MultiClickTrigger fires OnMatch(n) when Code is pressed n times within
// Window of each other, rejecting presses that arrive within
// BounceWindow of the previous one as switch bounce rather than a
// deliberate click.
type MultiClickTrigger struct {
	Code         uint16
	Window       time.Duration
	BounceWindow time.Duration
	OnMatch      func(count int)

	lastPress time.Time
	count     int
}

var _ pipeline.Observer = (*MultiClickTrigger)(nil)

// NewMultiClickTrigger returns a trigger counting presses of code within
// window of each other, debounced by bounceWindow (typically ~1ms).
func NewMultiClickTrigger(code uint16, window, bounceWindow time.Duration, onMatch func(int)) *MultiClickTrigger {
	return &MultiClickTrigger{Code: code, Window: window, BounceWindow: bounceWindow, OnMatch: onMatch}
}

// Name satisfies [pipeline.Stage].
func (m *MultiClickTrigger) Name() string { return "search.MultiClickTrigger" }

// Observe updates the click count on every press of Code and reports it
// via OnMatch.
func (m *MultiClickTrigger) Observe(ctx *pipeline.Context) (pipeline.Action, error) {
	ev := ctx.Event
	if !ev.IsPress() || ev.Code != m.Code {
		return pipeline.Next, nil
	}

	now := ev.Time
	sinceLast := now.Sub(m.lastPress)

	switch {
	case m.lastPress.IsZero():
		m.count = 1
	case sinceLast < m.BounceWindow:
		// bounce: ignore this press entirely, don't count it
		return pipeline.Next, nil
	case sinceLast <= m.Window:
		m.count++
	default:
		m.count = 1
	}

	m.lastPress = now
	if m.OnMatch != nil {
		m.OnMatch(m.count)
	}

	return pipeline.Next, nil
}

// SwipeTrigger fires OnMatch(multiple) every time the cumulative
// relative displacement since Code was pressed crosses another whole
// multiple of Threshold in the matching sign.
type SwipeTrigger struct {
	Code      uint16 // the button that must be held for the swipe to count (e.g. BTN_LEFT)
	Axis      uint16 // REL_X or REL_Y
	Threshold int32
	OnMatch   func(multiple int)

	held        bool
	accumulated int32
	reported    int
}

var _ pipeline.Observer = (*SwipeTrigger)(nil)

// NewSwipeTrigger returns a trigger reporting every Threshold units of
// cumulative motion on axis while code is held.
func NewSwipeTrigger(code, axis uint16, threshold int32, onMatch func(int)) *SwipeTrigger {
	return &SwipeTrigger{Code: code, Axis: axis, Threshold: threshold, OnMatch: onMatch}
}

// Name satisfies [pipeline.Stage].
func (s *SwipeTrigger) Name() string { return "search.SwipeTrigger" }

// Observe tracks the hold state of Code and accumulates motion on Axis
// while held, firing OnMatch each time another whole Threshold is
// crossed in either direction.
func (s *SwipeTrigger) Observe(ctx *pipeline.Context) (pipeline.Action, error) {
	ev := ctx.Event

	if ev.IsKey() && ev.Code == s.Code {
		if ev.IsPress() {
			s.held = true
			s.accumulated = 0
			s.reported = 0
		} else if ev.IsRelease() {
			s.held = false
		}
		return pipeline.Next, nil
	}

	if !s.held || ev.Type != evcodes.EV_REL || ev.Code != s.Axis {
		return pipeline.Next, nil
	}

	s.accumulated += ev.Value
	multiple := int(s.accumulated / s.Threshold)

	if multiple != s.reported && s.OnMatch != nil {
		s.OnMatch(multiple)
	}
	s.reported = multiple

	return pipeline.Next, nil
}
