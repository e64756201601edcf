//go:build linux

package hotkey

import (
	"fmt"

	"github.com/jezek/xgb/xproto"

	"github.com/jmylchreest/shade/internal/config"
)

// X keysyms for the named chord keys. Letters and digits share their
// ASCII values.
var namedKeysyms = map[string]xproto.Keysym{
	"space":  0x0020,
	"return": 0xff0d,
	"escape": 0xff1b,
	"tab":    0xff09,
	"delete": 0xffff,
	"left":   0xff51,
	"up":     0xff52,
	"right":  0xff53,
	"down":   0xff54,
}

const keysymF1 xproto.Keysym = 0xffbe

// modifierMasks maps config.Modifier to X modifier masks.
var modifierMasks = map[config.Modifier]uint16{
	config.ModCtrl:  xproto.ModMaskControl,
	config.ModShift: xproto.ModMaskShift,
	config.ModAlt:   xproto.ModMask1, // Alt is Mod1 on X11
	config.ModSuper: xproto.ModMask4, // Super is Mod4 on X11
}

// chordMask covers the modifiers a chord can carry. Other bits in a key
// event's state, such as Caps Lock and Num Lock, are ignored.
const chordMask = xproto.ModMaskControl | xproto.ModMaskShift | xproto.ModMask1 | xproto.ModMask4

// lockVariants are grabbed alongside each chord so it still fires with
// Caps Lock or Num Lock on.
var lockVariants = []uint16{
	0,
	xproto.ModMaskLock,
	xproto.ModMask2,
	xproto.ModMaskLock | xproto.ModMask2,
}

// keysymFor returns the X keysym for a chord key name.
func keysymFor(name string) (xproto.Keysym, bool) {
	if len(name) == 1 {
		c := name[0]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return xproto.Keysym(c), true
		}
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && fmt.Sprintf("f%d", n) == name && n >= 1 && n <= 20 {
		return keysymF1 + xproto.Keysym(n-1), true
	}
	sym, ok := namedKeysyms[name]
	return sym, ok
}

// resolve converts a parsed chord to an X modifier mask and keysym.
func resolve(chord config.Chord) (uint16, xproto.Keysym, error) {
	sym, ok := keysymFor(chord.Key)
	if !ok {
		return 0, 0, fmt.Errorf("key %q is not supported on this platform", chord.Key)
	}

	var mask uint16
	for _, m := range chord.Modifiers {
		bit, ok := modifierMasks[m]
		if !ok {
			return 0, 0, fmt.Errorf("modifier %q is not supported on this platform", m)
		}
		mask |= bit
	}
	return mask, sym, nil
}
