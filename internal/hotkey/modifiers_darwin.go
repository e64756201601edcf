//go:build darwin

package hotkey

import (
	"golang.design/x/hotkey"

	"github.com/jmylchreest/shade/internal/config"
)

// modifierMap maps config.Modifier to hotkey.Modifier on macOS.
var modifierMap = map[config.Modifier]hotkey.Modifier{
	config.ModCtrl:  hotkey.ModCtrl,
	config.ModShift: hotkey.ModShift,
	config.ModAlt:   hotkey.ModOption,
	config.ModSuper: hotkey.ModCmd,
}
