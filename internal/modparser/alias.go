package modparser

import "github.com/moisrex/foresight/internal/evcodes"

// alias maps a modifier or key name, as it appears inside <...> bracket
// notation, to the evdev keycode it presses. Lookup is case-insensitive:
// "<Ctrl>", "<ctrl>", and "<CTRL>" all resolve to the same entry.
type alias struct {
	name string
	code uint16
}

// aliasTable lists every recognized modifier and named-key alias. Names
// are matched case-insensitively via a hash-first probe (see
// hashutil.CaseInsensitiveFNV1a) followed by an exact case-insensitive
// comparison to rule out hash collisions.
var aliasTable = []alias{
	{"ctrl", evcodes.KEY_LEFTCTRL},
	{"control", evcodes.KEY_LEFTCTRL},
	{"lctrl", evcodes.KEY_LEFTCTRL},
	{"leftctrl", evcodes.KEY_LEFTCTRL},
	{"rctrl", evcodes.KEY_RIGHTCTRL},
	{"rightctrl", evcodes.KEY_RIGHTCTRL},
	{"shift", evcodes.KEY_LEFTSHIFT},
	{"lshift", evcodes.KEY_LEFTSHIFT},
	{"leftshift", evcodes.KEY_LEFTSHIFT},
	{"rshift", evcodes.KEY_RIGHTSHIFT},
	{"rightshift", evcodes.KEY_RIGHTSHIFT},
	{"alt", evcodes.KEY_LEFTALT},
	{"lalt", evcodes.KEY_LEFTALT},
	{"leftalt", evcodes.KEY_LEFTALT},
	{"ralt", evcodes.KEY_RIGHTALT},
	{"rightalt", evcodes.KEY_RIGHTALT},
	{"altgr", evcodes.KEY_RIGHTALT},
	{"meta", evcodes.KEY_LEFTMETA},
	{"lmeta", evcodes.KEY_LEFTMETA},
	{"leftmeta", evcodes.KEY_LEFTMETA},
	{"rmeta", evcodes.KEY_RIGHTMETA},
	{"rightmeta", evcodes.KEY_RIGHTMETA},
	{"super", evcodes.KEY_LEFTMETA},
	{"win", evcodes.KEY_LEFTMETA},
	{"windows", evcodes.KEY_LEFTMETA},
	{"cmd", evcodes.KEY_LEFTMETA},
	{"command", evcodes.KEY_LEFTMETA},
	{"capslock", evcodes.KEY_CAPSLOCK},
	{"caps", evcodes.KEY_CAPSLOCK},
	{"numlock", evcodes.KEY_NUMLOCK},
	{"num", evcodes.KEY_NUMLOCK},
	{"scrolllock", evcodes.KEY_SCROLLLOCK},
	{"tab", evcodes.KEY_TAB},
	{"enter", evcodes.KEY_ENTER},
	{"return", evcodes.KEY_ENTER},
	{"esc", evcodes.KEY_ESC},
	{"escape", evcodes.KEY_ESC},
	{"space", evcodes.KEY_SPACE},
	{"backspace", evcodes.KEY_BACKSPACE},
	{"delete", evcodes.KEY_DELETE},
	{"del", evcodes.KEY_DELETE},
	{"insert", evcodes.KEY_INSERT},
	{"home", evcodes.KEY_HOME},
	{"end", evcodes.KEY_END},
	{"pageup", evcodes.KEY_PAGEUP},
	{"pagedown", evcodes.KEY_PAGEDOWN},
	{"up", evcodes.KEY_UP},
	{"down", evcodes.KEY_DOWN},
	{"left", evcodes.KEY_LEFT},
	{"right", evcodes.KEY_RIGHT},
	{"f1", evcodes.KEY_F1},
	{"f2", evcodes.KEY_F2},
	{"f3", evcodes.KEY_F3},
	{"f4", evcodes.KEY_F4},
}

var aliasByHash map[uint32][]alias

func init() {
	aliasByHash = make(map[uint32][]alias, len(aliasTable))
	for _, a := range aliasTable {
		h := hashAlias(a.name)
		aliasByHash[h] = append(aliasByHash[h], a)
	}
}
