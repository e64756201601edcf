package display

import (
	"errors"

	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/jezek/xgb/xproto"

	"github.com/jmylchreest/shade/internal/x11"
)

// clearSurfaceInput gives the window's GDK surface an empty input region.
// Works on Wayland and, through GDK, on X11.
func clearSurfaceInput(w *gtk.Window) error {
	native := w.Surface()
	if native == nil {
		return errors.New("window has no surface")
	}
	surface := gdk.BaseSurface(native)
	surface.SetInputRegion(cairo.RegionCreate())
	return nil
}

// x11Window finds the X window for a GTK toplevel by its title, caching the
// result in *xid.
func x11Window(client *x11.Client, title string, xid *xproto.Window) (xproto.Window, error) {
	if *xid != 0 {
		return *xid, nil
	}
	win, err := client.FindWindowByTitle(title)
	if err != nil {
		return 0, err
	}
	*xid = win
	return win, nil
}

// clickThrough makes the window transparent to pointer input using the
// mechanism suited to the backend.
func clickThrough(backend Backend, w *gtk.Window, client *x11.Client, title string, xid *xproto.Window) error {
	if backend != BackendX11 || client == nil {
		return clearSurfaceInput(w)
	}

	win, err := x11Window(client, title, xid)
	if err != nil {
		return &DisplayError{Message: "overlay window not found", Cause: err}
	}
	if err := client.ClearInputShape(win); err != nil {
		// GDK can still do it through its own SHAPE support.
		if gdkErr := clearSurfaceInput(w); gdkErr != nil {
			return errors.Join(err, gdkErr)
		}
	}
	return nil
}

// keepAbove asks the X11 window manager to stack the window above others.
// Layer-shell surfaces already are.
func keepAbove(backend Backend, client *x11.Client, title string, xid *xproto.Window) error {
	if backend != BackendX11 || client == nil {
		return nil
	}
	win, err := x11Window(client, title, xid)
	if err != nil {
		return &DisplayError{Message: "window not found", Cause: err}
	}
	return client.SetAbove(win, true)
}
