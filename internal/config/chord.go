package config

import (
	"fmt"
	"slices"
	"strings"
)

// Modifier is a platform-neutral hotkey modifier.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super"
)

// modifierAliases maps accepted spellings to modifiers.
var modifierAliases = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"mod1":    ModAlt,
	"super":   ModSuper,
	"win":     ModSuper,
	"meta":    ModSuper,
	"mod4":    ModSuper,
}

// namedKeys are the non-alphanumeric key names a chord may end with.
var namedKeys = []string{
	"space", "return", "escape", "tab", "delete",
	"left", "right", "up", "down",
}

// Chord is a parsed key combination such as "alt+q".
type Chord struct {
	Modifiers []Modifier
	Key       string // lowercase: "a"-"z", "0"-"9", "f1"-"f20" or a named key
}

// String renders the chord in canonical form.
func (c Chord) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, m := range c.Modifiers {
		parts = append(parts, string(m))
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// ChordError describes an unparseable chord.
type ChordError struct {
	Chord  string
	Reason string
}

func (e *ChordError) Error() string {
	return fmt.Sprintf("invalid hotkey %q: %s", e.Chord, e.Reason)
}

// ParseChord parses "mod+mod+key". Matching is case-insensitive and
// modifiers are returned in canonical order without duplicates.
func ParseChord(s string) (Chord, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return Chord{}, &ChordError{Chord: s, Reason: "empty"}
	}

	parts := strings.Split(raw, "+")
	keyName := strings.TrimSpace(parts[len(parts)-1])
	if keyName == "" {
		return Chord{}, &ChordError{Chord: s, Reason: "missing key"}
	}
	if !IsValidKey(keyName) {
		return Chord{}, &ChordError{Chord: s, Reason: fmt.Sprintf("unknown key %q", keyName)}
	}

	seen := make(map[Modifier]bool)
	for _, p := range parts[:len(parts)-1] {
		p = strings.TrimSpace(p)
		mod, ok := modifierAliases[p]
		if !ok {
			return Chord{}, &ChordError{Chord: s, Reason: fmt.Sprintf("unknown modifier %q", p)}
		}
		seen[mod] = true
	}
	if len(seen) == 0 {
		return Chord{}, &ChordError{Chord: s, Reason: "at least one modifier is required for a global hotkey"}
	}

	chord := Chord{Key: keyName}
	for _, m := range []Modifier{ModCtrl, ModShift, ModAlt, ModSuper} {
		if seen[m] {
			chord.Modifiers = append(chord.Modifiers, m)
		}
	}
	return chord, nil
}

// IsValidKey reports whether name is a key a chord may end with.
func IsValidKey(name string) bool {
	if len(name) == 1 {
		c := name[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	if strings.HasPrefix(name, "f") {
		var n int
		if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && fmt.Sprintf("f%d", n) == name {
			return n >= 1 && n <= 20
		}
	}
	return slices.Contains(namedKeys, name)
}
