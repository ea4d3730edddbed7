// Package keymap implements the how2type algorithm: given a codepoint
// and a keyboard layout description, find which key (and which
// modifiers) produce that character, so a typist can synthesize the
// keypresses needed to type arbitrary Unicode text on a virtual
// keyboard.
package keymap

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/ferr"
)

// xkbToEvdevOffset is the constant shift between an X11/xkb keycode and
// the evdev keycode it maps to: xkb reserves its first 8 codes, so
// evdev's KEY_* numbering starts 8 lower.
const xkbToEvdevOffset = 8

// KeyPosition identifies exactly where, on a given layout, one codepoint
// can be typed: which physical key, at which shift level (0 = bare,
// 1 = shifted, 2 = AltGr, ...), and which modifier keys must be held to
// reach that level.
type KeyPosition struct {
	// Keycode is the evdev keycode of the physical key to press.
	Keycode uint16

	// Level is the shift level the codepoint lives at on this key.
	Level int

	// Modifiers lists the evdev keycodes that must be held down to
	// reach Level (for example, KEY_LEFTSHIFT for level 1).
	Modifiers []uint16
}

// layoutEntry is one row of a loaded keymap: the codepoints a single
// physical key produces at each shift level, keyed by xkb keycode.
type layoutEntry struct {
	XKBKeycode int      `yaml:"xkb_keycode"`
	Levels     []string `yaml:"levels"` // one string per level, each exactly one rune (or empty)
}

// Keymap is a self-contained, layout-agnostic table mapping codepoints
// to the key positions that produce them. Unlike xkbcommon, which
// compiles a layout description at runtime, a Keymap is just data: it is
// loaded once from YAML (or built in code) and then queried many times.
type Keymap struct {
	layout []layoutEntry

	byRune map[rune][]KeyPosition

	// byKeyLevel is the reverse index Reverse queries: a (keycode, level)
	// pair back to the rune it produces.
	byKeyLevel map[uint32]rune
}

// Load reads a Keymap from a YAML file shaped as a list of layoutEntry
// records.
func Load(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var layout []layoutEntry
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, err
	}

	return build(layout), nil
}

// New builds a Keymap directly from in-memory layout rows, for tests and
// callers that build a layout in code.
func New(rows map[int][]string) *Keymap {
	layout := make([]layoutEntry, 0, len(rows))
	for xkb, levels := range rows {
		layout = append(layout, layoutEntry{XKBKeycode: xkb, Levels: levels})
	}
	return build(layout)
}

func build(layout []layoutEntry) *Keymap {
	km := &Keymap{
		layout:     layout,
		byRune:     make(map[rune][]KeyPosition),
		byKeyLevel: make(map[uint32]rune),
	}

	for _, entry := range layout {
		keycode := uint16(entry.XKBKeycode - xkbToEvdevOffset)

		for level, s := range entry.Levels {
			if s == "" {
				continue
			}
			r := []rune(s)[0]

			pos := KeyPosition{Keycode: keycode, Level: level, Modifiers: modifiersForLevel(level)}
			km.byKeyLevel[reverseKey(keycode, level)] = r

			// Lowest-level-per-keysym dedup: if this rune is already
			// reachable at a lower (or equal) level on some other key,
			// keep the existing, cheaper-to-type entry.
			if existing, ok := km.byRune[r]; ok && existing[0].Level <= level {
				continue
			}

			km.byRune[r] = []KeyPosition{pos}
		}
	}

	return km
}

func reverseKey(keycode uint16, level int) uint32 {
	return uint32(keycode)<<8 | uint32(level)
}

// modifiersForLevel returns the evdev modifier keycodes conventionally
// associated with a shift level: level 0 is bare, level 1 is Shift,
// level 2 is AltGr, level 3 is Shift+AltGr. Levels beyond that have no
// conventional modifier and are left unmodified; a layout that needs
// something more exotic should not rely on this default.
func modifiersForLevel(level int) []uint16 {
	const (
		keyLeftShift = 42
		keyRightAlt  = 100
	)

	switch level {
	case 0:
		return nil
	case 1:
		return []uint16{keyLeftShift}
	case 2:
		return []uint16{keyRightAlt}
	case 3:
		return []uint16{keyLeftShift, keyRightAlt}
	default:
		return nil
	}
}

// Lookup returns the first (lowest-level) KeyPosition known to produce
// r, using the first-found strategy: the first layout row encountered at
// the lowest level wins ties rather than searching for some other
// notion of "best".
func (km *Keymap) Lookup(r rune) (KeyPosition, bool) {
	positions, ok := km.byRune[r]
	if !ok || len(positions) == 0 {
		return KeyPosition{}, false
	}
	return positions[0], true
}

// How2Type returns the ordered sequence of key events needed to type r.
// With no modifiers required, that is simply press, SYN, release, SYN.
// When a level needs modifiers held, every group — the modifier presses,
// the main key press, the main key release, and the modifier releases —
// ends with its own SYN, so a consumer reading the raw stream can always
// tell where one group's effect is complete before the next begins. If r
// has no direct KeyPosition, How2Type returns ferr.CodepointInvalid so
// the caller can fall back to a ComposeTable search.
func (km *Keymap) How2Type(r rune) ([]KeyEvent, error) {
	pos, ok := km.Lookup(r)
	if !ok {
		return nil, ferr.CodepointInvalid
	}

	var events []KeyEvent

	if len(pos.Modifiers) > 0 {
		for _, mod := range pos.Modifiers {
			events = append(events, KeyEvent{Code: mod, Press: true})
		}
		events = append(events, KeyEvent{Syn: true})
	}

	events = append(events, KeyEvent{Code: pos.Keycode, Press: true})
	events = append(events, KeyEvent{Syn: true})
	events = append(events, KeyEvent{Code: pos.Keycode, Press: false})
	events = append(events, KeyEvent{Syn: true})

	if len(pos.Modifiers) > 0 {
		for i := len(pos.Modifiers) - 1; i >= 0; i-- {
			events = append(events, KeyEvent{Code: pos.Modifiers[i], Press: false})
		}
		events = append(events, KeyEvent{Syn: true})
	}

	return events, nil
}

// levelForModifiers maps the set of currently held modifier keycodes to
// the shift level they select, the inverse of modifiersForLevel.
func levelForModifiers(held []uint16) int {
	shift, altGr := false, false
	for _, m := range held {
		switch m {
		case evcodes.KEY_LEFTSHIFT, evcodes.KEY_RIGHTSHIFT:
			shift = true
		case evcodes.KEY_RIGHTALT:
			altGr = true
		}
	}

	switch {
	case shift && altGr:
		return 3
	case altGr:
		return 2
	case shift:
		return 1
	default:
		return 0
	}
}

// Reverse returns the rune produced by pressing keycode while
// heldModifiers are down, the inverse of Lookup. The search engine uses
// this to recover the codepoint a live KEY press would type without
// redriving How2Type.
func (km *Keymap) Reverse(keycode uint16, heldModifiers ...uint16) (rune, bool) {
	r, ok := km.byKeyLevel[reverseKey(keycode, levelForModifiers(heldModifiers))]
	return r, ok
}

// KeyEvent is one step of a How2Type sequence: either a key transition
// or a SYN_REPORT delimiter.
type KeyEvent struct {
	Code  uint16
	Press bool
	Syn   bool
}
