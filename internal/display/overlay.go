package display

import (
	"log/slog"
	"time"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/jezek/xgb/xproto"

	"github.com/jmylchreest/shade/internal/dimmer"
	"github.com/jmylchreest/shade/internal/theme"
	"github.com/jmylchreest/shade/internal/x11"
)

const (
	overlayTitle     = "shade-overlay"
	overlayNamespace = "shade-overlay"

	// Compositors may reset the input region when the surface is realized
	// or repainted, so click-through is applied late and re-asserted.
	passthroughInitialDelay  = 100 * time.Millisecond
	passthroughReassertDelay = 10 * time.Millisecond
)

// OverlayOptions configures an Overlay.
type OverlayOptions struct {
	App       *gtk.Application
	Backend   Backend
	X11       *x11.Client // only used with BackendX11
	Monitor   *gdk.Monitor
	Scheduler dimmer.Scheduler
	Logger    *slog.Logger
}

// Overlay is the full-screen, click-through, always-on-top black window
// whose opacity does the dimming.
type Overlay struct {
	window  *gtk.Window
	backend Backend
	x11     *x11.Client
	sched   dimmer.Scheduler
	logger  *slog.Logger

	xid       xproto.Window
	reassert  dimmer.Timer
	realized  bool
	lastAlpha float64
}

var _ dimmer.Overlay = (*Overlay)(nil)

// NewOverlay builds the overlay window. It is not shown until Show.
func NewOverlay(opts OverlayOptions) *Overlay {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	o := &Overlay{
		backend: opts.Backend,
		x11:     opts.X11,
		sched:   opts.Scheduler,
		logger:  logger,
	}

	o.window = gtk.NewWindow()
	o.window.SetApplication(opts.App)
	o.window.SetTitle(overlayTitle)
	o.window.SetDecorated(false)
	o.window.SetResizable(false)
	o.window.SetFocusable(false)
	o.window.SetCanTarget(false)
	o.window.AddCSSClass(theme.ClassOverlay)

	switch o.backend {
	case BackendLayerShell:
		layershell.InitForWindow(o.window)
		layershell.SetLayer(o.window, layershell.LayerShellLayerOverlay)
		for _, edge := range []layershell.LayerShellEdge{
			layershell.LayerShellEdgeTop,
			layershell.LayerShellEdgeBottom,
			layershell.LayerShellEdgeLeft,
			layershell.LayerShellEdgeRight,
		} {
			layershell.SetAnchor(o.window, edge, true)
		}
		// -1 covers panels and other exclusive zones too.
		layershell.SetExclusiveZone(o.window, -1)
		layershell.SetKeyboardMode(o.window, layershell.LayerShellKeyboardModeNone)
		layershell.SetNamespace(o.window, overlayNamespace)
		if opts.Monitor != nil {
			layershell.SetMonitor(o.window, opts.Monitor)
		}
	default:
		if w, h, ok := MonitorSize(opts.Monitor); ok {
			o.window.SetDefaultSize(w, h)
		}
		if opts.Monitor != nil {
			o.window.FullscreenOnMonitor(opts.Monitor)
		} else {
			o.window.Fullscreen()
		}
	}

	o.window.ConnectRealize(func() {
		o.realized = true
		o.sched.After(passthroughInitialDelay, o.onRealized)
	})

	return o
}

// Show presents the overlay.
func (o *Overlay) Show() {
	o.window.Present()
	o.logger.Debug("overlay shown", "backend", o.backend.String())
}

// SetAlpha sets the window opacity and re-asserts click-through shortly
// after.
func (o *Overlay) SetAlpha(alpha float64) {
	o.lastAlpha = alpha
	o.window.SetOpacity(alpha)

	if !o.realized {
		return
	}
	if o.reassert != nil {
		o.reassert.Stop()
	}
	o.reassert = o.sched.After(passthroughReassertDelay, func() {
		o.reassert = nil
		o.applyClickThrough()
	})
}

// Alpha returns the last opacity applied.
func (o *Overlay) Alpha() float64 {
	return o.lastAlpha
}

// Close destroys the window.
func (o *Overlay) Close() {
	if o.reassert != nil {
		o.reassert.Stop()
		o.reassert = nil
	}
	o.window.Destroy()
}

func (o *Overlay) onRealized() {
	if err := keepAbove(o.backend, o.x11, overlayTitle, &o.xid); err != nil {
		o.logger.Warn("failed to keep overlay on top", "error", err)
	}
	o.applyClickThrough()
}

func (o *Overlay) applyClickThrough() {
	if err := clickThrough(o.backend, o.window, o.x11, overlayTitle, &o.xid); err != nil {
		o.logger.Warn("failed to make overlay click-through", "error", err)
		return
	}
	o.logger.Debug("overlay click-through applied")
}
