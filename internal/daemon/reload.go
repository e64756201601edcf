package daemon

import (
	"github.com/jmylchreest/shade/internal/config"
)

// Changes lists which parts of a reloaded config differ from the running one.
type Changes struct {
	Step        bool
	HideDelay   bool
	Geometry    bool
	Hotkeys     bool
	Theme       bool
	ColorScheme bool
	Notify      bool

	// Fields that only take effect after a restart.
	Monitor bool
	Tray    bool
}

// Any reports whether anything changed.
func (c Changes) Any() bool {
	return c.Step || c.HideDelay || c.Geometry || c.Hotkeys || c.Theme ||
		c.ColorScheme || c.Notify || c.Monitor || c.Tray
}

// NeedsRestart reports whether a change cannot be applied live.
func (c Changes) NeedsRestart() bool {
	return c.Monitor || c.Tray
}

// Diff compares two configs. Brightness.Initial is ignored since it only
// applies at startup.
func Diff(old, updated *config.Config) Changes {
	if old == nil || updated == nil {
		return Changes{}
	}
	os, ns := old.Slider, updated.Slider
	return Changes{
		Step:      old.Brightness.Step != updated.Brightness.Step,
		HideDelay: os.HideDelay != ns.HideDelay,
		Geometry: os.Width != ns.Width || os.Height != ns.Height ||
			os.BottomMargin != ns.BottomMargin || os.Opacity != ns.Opacity,
		Hotkeys:     hotkeysChanged(old.Hotkeys, updated.Hotkeys),
		Theme:       old.Theme.Name != updated.Theme.Name,
		ColorScheme: old.Theme.ColorScheme != updated.Theme.ColorScheme,
		Notify:      old.Notify.Enabled != updated.Notify.Enabled,
		Monitor:     old.Overlay.Monitor != updated.Overlay.Monitor,
		Tray:        old.Tray.Enabled != updated.Tray.Enabled,
	}
}

// hotkeysChanged compares chords in canonical form so "Alt+Q" and "alt+q"
// are the same binding.
func hotkeysChanged(old, updated config.HotkeyConfig) bool {
	if old.Enabled != updated.Enabled {
		return true
	}
	if !updated.Enabled {
		return false
	}
	return canonicalChord(old.Decrease) != canonicalChord(updated.Decrease) ||
		canonicalChord(old.Increase) != canonicalChord(updated.Increase)
}

func canonicalChord(s string) string {
	c, err := config.ParseChord(s)
	if err != nil {
		return s
	}
	return c.String()
}
