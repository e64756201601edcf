//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"github.com/jmylchreest/shade/internal/config"
)

// modifierMap maps config.Modifier to hotkey.Modifier on Windows.
var modifierMap = map[config.Modifier]hotkey.Modifier{
	config.ModCtrl:  hotkey.ModCtrl,
	config.ModShift: hotkey.ModShift,
	config.ModAlt:   hotkey.ModAlt,
	config.ModSuper: hotkey.ModWin,
}
