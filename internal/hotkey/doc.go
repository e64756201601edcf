// Package hotkey registers process-wide key chords. Callbacks run on the
// listener's own goroutines, never on the UI thread.
//
// On Linux chords are grabbed on the X root window through a dedicated xgb
// connection. Under Wayland such grabs only see keys while an XWayland
// window has focus; bind `shade up` and `shade down` as compositor
// shortcuts instead. macOS and Windows use golang.design/x/hotkey.
package hotkey
