package display

import (
	"log/slog"
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
)

// MonitorFor returns the monitor to place windows on.
//   - 0: let the compositor decide (returns nil)
//   - 1+: specific monitor (1-indexed)
//
// An index past the end falls back to the first monitor.
func MonitorFor(index int, logger *slog.Logger) *gdk.Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	if index <= 0 {
		return nil
	}

	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil
	}
	monitors := display.Monitors()
	if monitors == nil {
		logger.Warn("no monitors list available")
		return nil
	}

	i := uint(index - 1)
	if i >= monitors.NItems() {
		logger.Warn("configured monitor not available, using first",
			"configured", index,
			"available", monitors.NItems(),
		)
		return firstMonitor(display)
	}
	return wrapMonitor(monitors.Item(i))
}

// MonitorSize returns the logical size of m, or of the first monitor when
// m is nil.
func MonitorSize(m *gdk.Monitor) (width, height int, ok bool) {
	if m == nil {
		display := gdk.DisplayGetDefault()
		if display == nil {
			return 0, 0, false
		}
		m = firstMonitor(display)
	}
	if m == nil {
		return 0, 0, false
	}
	geom := m.Geometry()
	return geom.Width(), geom.Height(), true
}

func firstMonitor(display *gdk.Display) *gdk.Monitor {
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}
	return wrapMonitor(monitors.Item(0))
}

// wrapMonitor casts a list item to *gdk.Monitor. gotk4 keeps its own
// wrapper unexported; gdk.Monitor is a single embedded *glib.Object.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
