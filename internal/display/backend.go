package display

import (
	"os"
	"strings"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
)

// Backend is the windowing strategy used to keep windows on top.
type Backend int

const (
	// BackendLayerShell places windows on the wlr-layer-shell overlay layer.
	BackendLayerShell Backend = iota
	// BackendX11 uses EWMH hints and the SHAPE extension through xgb.
	BackendX11
	// BackendPlain is a bare fullscreen toplevel; stacking is up to the
	// compositor.
	BackendPlain
)

func (b Backend) String() string {
	switch b {
	case BackendLayerShell:
		return "layer-shell"
	case BackendX11:
		return "x11"
	default:
		return "plain"
	}
}

// DetectBackend picks the backend for the running GDK display. Call after
// GTK is initialized.
func DetectBackend() Backend {
	if layershell.IsSupported() {
		return BackendLayerShell
	}
	if isX11Session(os.Getenv("GDK_BACKEND"), os.Getenv("WAYLAND_DISPLAY"), os.Getenv("DISPLAY")) {
		return BackendX11
	}
	return BackendPlain
}

func isX11Session(gdkBackend, waylandDisplay, display string) bool {
	if display == "" {
		return false
	}
	if strings.HasPrefix(gdkBackend, "x11") {
		return true
	}
	return waylandDisplay == ""
}
