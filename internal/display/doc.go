// Package display owns the GTK4 windows: the full-screen dimming overlay and
// the brightness slider popup. On Wayland compositors with wlr-layer-shell
// both are layer surfaces; elsewhere they are plain toplevels kept above
// other windows through the x11 package.
//
// Everything here must run on the GTK main thread. MainLoop is the bridge
// other goroutines use to get there.
package display
