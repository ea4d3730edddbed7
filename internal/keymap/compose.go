package keymap

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moisrex/foresight/internal/ferr"
)

// composeEntry is one row of a compose table: a sequence of literal
// runes that, typed through a compose key, produce Result.
type composeEntry struct {
	Sequence []rune `yaml:"sequence"`
	Result   rune   `yaml:"result"`
}

// ComposeTable is the fallback path for codepoints with no direct
// KeyPosition: a table of multi-keystroke sequences (as xkb's
// Compose files define). Candidate sequences for a rune are tried in
// table order, and each rune of a sequence is typed through its single
// direct KeyPosition; no search over alternative positions of a rune is
// made.
type ComposeTable struct {
	composeKey uint16
	entries    map[rune][]composeEntry
}

// LoadCompose reads a ComposeTable from a YAML file listing composeEntry
// records, using composeKey as the evdev code of the compose/multi key.
func LoadCompose(path string, composeKey uint16) (*ComposeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []composeEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	ct := &ComposeTable{composeKey: composeKey, entries: make(map[rune][]composeEntry)}
	for _, e := range entries {
		ct.entries[e.Result] = append(ct.entries[e.Result], e)
	}
	return ct, nil
}

// FindTyping searches for a way to type r: first directly via km, then,
// failing that, via a compose sequence whose every constituent rune is
// itself directly typable on km. Mixing two different keyboard layouts
// within one compose sequence is never attempted, since the resulting
// physical keystrokes would not correspond to any single layout a user
// actually has loaded.
func (ct *ComposeTable) FindTyping(km *Keymap, r rune) ([]KeyEvent, error) {
	if events, err := km.How2Type(r); err == nil {
		return events, nil
	}

	candidates, ok := ct.entries[r]
	if !ok {
		return nil, ferr.ComposeUnavailable
	}

	for _, candidate := range candidates {
		events, ok := ct.tryCompose(km, candidate)
		if ok {
			return events, nil
		}
	}

	return nil, ferr.ComposeUnavailable
}

// tryCompose attempts one candidate compose sequence, requiring every
// rune in it to resolve directly on km (the layout-mixing constraint).
func (ct *ComposeTable) tryCompose(km *Keymap, candidate composeEntry) ([]KeyEvent, bool) {
	var events []KeyEvent

	events = append(events, KeyEvent{Code: ct.composeKey, Press: true})
	events = append(events, KeyEvent{Syn: true})
	events = append(events, KeyEvent{Code: ct.composeKey, Press: false})
	events = append(events, KeyEvent{Syn: true})

	for _, r := range candidate.Sequence {
		step, err := km.How2Type(r)
		if err != nil {
			return nil, false
		}
		events = append(events, step...)
	}

	return events, true
}
