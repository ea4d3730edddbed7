// Package modparser parses the bracketed modifier notation used in
// typist strings: "<name>" for a key press, "</name>" for a release, and
// "<mod1-mod2-key>" for a chord, plus bare codepoint escapes
// ("U+0041", a decimal or hex number, or a literal UTF-8 rune).
package modparser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/moisrex/foresight/internal/ferr"
	"github.com/moisrex/foresight/internal/hashutil"
)

var fold = cases.Fold()

func hashAlias(name string) uint32 {
	return hashutil.CaseInsensitiveFNV1a(fold.String(name))
}

func iequalAlias(a, b string) bool {
	return fold.String(a) == fold.String(b)
}

// LookupAlias resolves a modifier or named-key token to its evdev
// keycode. It hashes name, case-insensitively, to narrow the search to a
// small bucket, then confirms with a full case-insensitive comparison so
// a hash collision never silently resolves to the wrong key.
func LookupAlias(name string) (uint16, bool) {
	for _, a := range aliasByHash[hashAlias(name)] {
		if iequalAlias(a.name, name) {
			return a.code, true
		}
	}
	return 0, false
}

// Kind distinguishes the three bracket-notation forms.
type Kind int

const (
	// Press is "<name>": tap name (press it, then release it).
	Press Kind = iota
	// Release is "</name>": release a previously pressed name.
	Release
	// Chord is "<mod1-mod2-key>": press every listed modifier, tap the
	// final key, then release the modifiers in reverse order.
	Chord
)

// Modifier is one parsed "<...>" token.
type Modifier struct {
	Kind  Kind
	Names []string // for Press/Release, len==1; for Chord, the full chain
}

// ParseModifier parses the contents between a single pair of angle
// brackets (brackets already stripped) into a Modifier.
func ParseModifier(body string) (Modifier, error) {
	if body == "" {
		return Modifier{}, ferr.InvalidArgument
	}

	if strings.HasPrefix(body, "/") {
		name := body[1:]
		if name == "" {
			return Modifier{}, ferr.InvalidArgument
		}
		return Modifier{Kind: Release, Names: []string{name}}, nil
	}

	parts := splitUnescaped(body, '-')
	if len(parts) == 1 {
		return Modifier{Kind: Press, Names: parts}, nil
	}

	return Modifier{Kind: Chord, Names: parts}, nil
}

// splitUnescaped splits s on sep, except where sep is preceded by a
// backslash, mirroring find_delim's escape-aware scan.
func splitUnescaped(s string, sep byte) []string {
	var (
		parts   []string
		current strings.Builder
	)

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			current.WriteByte(s[i+1])
			i++
			continue
		}
		if s[i] == sep {
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteByte(s[i])
	}
	parts = append(parts, current.String())

	return parts
}

// ParseCharOrCodepoint parses a literal token into its rune: a bare
// UTF-8 character, a "U+NNNN" escape, a "0xNN" hex escape, or a plain
// decimal number. Surrogate-half codepoints (U+D800..U+DFFF) are
// rejected since they can never be valid standalone characters.
func ParseCharOrCodepoint(tok string) (rune, error) {
	var (
		cp  int64
		err error
	)

	switch {
	case strings.HasPrefix(tok, "U+") || strings.HasPrefix(tok, "u+"):
		cp, err = strconv.ParseInt(tok[2:], 16, 32)
	case strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X"):
		cp, err = strconv.ParseInt(tok[2:], 16, 32)
	case len(tok) > 0 && tok[0] >= '0' && tok[0] <= '9':
		cp, err = strconv.ParseInt(tok, 10, 32)
	default:
		r, size := utf8.DecodeRuneInString(tok)
		if r == utf8.RuneError || size != len(tok) {
			return 0, ferr.InvalidArgument
		}
		return r, nil
	}

	if err != nil {
		return 0, ferr.InvalidArgument
	}

	r := rune(cp)
	if r >= 0xD800 && r <= 0xDFFF {
		return 0, ferr.InvalidArgument
	}
	if !utf8.ValidRune(r) {
		return 0, ferr.InvalidArgument
	}

	return r, nil
}
