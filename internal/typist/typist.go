// Package typist turns a string containing literal text and "<...>"
// modifier tokens into the ordered sequence of key events needed to
// type it on a virtual keyboard.
package typist

import (
	"strings"

	"github.com/moisrex/foresight/internal/ferr"
	"github.com/moisrex/foresight/internal/keymap"
	"github.com/moisrex/foresight/internal/modparser"
)

// Typist combines a Keymap (and optional ComposeTable) for literal
// characters with modparser's alias table for bracketed tokens.
type Typist struct {
	Keymap  *keymap.Keymap
	Compose *keymap.ComposeTable
}

// New returns a Typist backed by km, with optional compose fallback.
func New(km *keymap.Keymap, compose *keymap.ComposeTable) *Typist {
	return &Typist{Keymap: km, Compose: compose}
}

// Type converts s into a flat sequence of key events. A "<...>" token
// that does not parse as modifier notation is typed literally, brackets
// included; a literal rune this Typist cannot produce is skipped; a token
// naming an unknown alias adds no events and its error is returned (the
// first such error) once the rest of s has been typed. Type does its best
// to emit everything it can rather than aborting the whole string on one
// bad token, mirroring how a real keyboard doesn't stop typing because
// one character was a typo.
func (t *Typist) Type(s string) ([]keymap.KeyEvent, error) {
	var (
		events  []keymap.KeyEvent
		firstErr error
	)

	for _, tok := range tokenize(s) {
		var (
			step []keymap.KeyEvent
			err  error
		)

		if tok.isToken {
			step, err = t.typeToken(tok.text)
		} else {
			step, err = t.typeLiteral(tok.text)
		}

		if err != nil && firstErr == nil {
			firstErr = err
		}

		events = append(events, step...)
	}

	return events, firstErr
}

func (t *Typist) typeLiteral(s string) ([]keymap.KeyEvent, error) {
	var events []keymap.KeyEvent

	for _, r := range s {
		var (
			step []keymap.KeyEvent
			err  error
		)

		if t.Compose != nil {
			step, err = t.Compose.FindTyping(t.Keymap, r)
		} else {
			step, err = t.Keymap.How2Type(r)
		}

		if err != nil {
			continue
		}

		events = append(events, step...)
	}

	return events, nil
}

func (t *Typist) typeToken(body string) ([]keymap.KeyEvent, error) {
	mod, err := modparser.ParseModifier(body)
	if err != nil {
		// fall back to typing the token literally, brackets and all,
		// since it didn't parse as valid modifier notation
		return t.typeLiteral("<" + body + ">")
	}

	var events []keymap.KeyEvent

	switch mod.Kind {
	case modparser.Press:
		code, ok := modparser.LookupAlias(mod.Names[0])
		if !ok {
			return nil, ferr.InvalidArgument
		}
		events = append(events,
			keymap.KeyEvent{Code: code, Press: true}, keymap.KeyEvent{Syn: true},
			keymap.KeyEvent{Code: code, Press: false}, keymap.KeyEvent{Syn: true},
		)

	case modparser.Release:
		code, ok := modparser.LookupAlias(mod.Names[0])
		if !ok {
			return nil, ferr.InvalidArgument
		}
		events = append(events, keymap.KeyEvent{Code: code, Press: false}, keymap.KeyEvent{Syn: true})

	case modparser.Chord:
		var codes []uint16
		for _, name := range mod.Names {
			code, ok := modparser.LookupAlias(name)
			if !ok {
				return nil, ferr.InvalidArgument
			}
			codes = append(codes, code)
		}
		for _, c := range codes {
			events = append(events, keymap.KeyEvent{Code: c, Press: true})
		}
		events = append(events, keymap.KeyEvent{Syn: true})
		for i := len(codes) - 1; i >= 0; i-- {
			events = append(events, keymap.KeyEvent{Code: codes[i], Press: false})
		}
		events = append(events, keymap.KeyEvent{Syn: true})
	}

	return events, nil
}

type segment struct {
	text    string
	isToken bool
}

// tokenize splits s into literal runs and "<...>" token bodies (angle
// brackets stripped). An unterminated "<" is treated as a literal
// character, not an error: real typed text may legitimately contain a
// bare less-than sign.
func tokenize(s string) []segment {
	var segments []segment

	for len(s) > 0 {
		idx := strings.IndexByte(s, '<')
		if idx < 0 {
			segments = append(segments, segment{text: s})
			break
		}

		if idx > 0 {
			segments = append(segments, segment{text: s[:idx]})
		}

		end := strings.IndexByte(s[idx:], '>')
		if end < 0 {
			segments = append(segments, segment{text: s[idx:]})
			break
		}

		segments = append(segments, segment{text: s[idx+1 : idx+end], isToken: true})
		s = s[idx+end+1:]
	}

	return segments
}
