package display

import (
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/jezek/xgb/xproto"

	"github.com/jmylchreest/shade/internal/dimmer"
	"github.com/jmylchreest/shade/internal/theme"
	"github.com/jmylchreest/shade/internal/x11"
)

const (
	sliderTitle     = "shade-slider"
	sliderNamespace = "shade-slider"
	sliderLabel     = "Brightness"
)

// SliderGeometry is the popup's size, placement and opacity.
type SliderGeometry struct {
	Width        int
	Height       int
	BottomMargin int
	Opacity      float64
}

// SliderOptions configures a SliderWindow.
type SliderOptions struct {
	App       *gtk.Application
	Backend   Backend
	X11       *x11.Client
	Monitor   *gdk.Monitor
	Geometry  SliderGeometry
	Scheduler dimmer.Scheduler
	Logger    *slog.Logger
	// SchemeClass returns the "light" or "dark" class for the popup.
	SchemeClass func() string
}

// SliderWindow is the GTK side of the slider popup. The window is built on
// the first Create call and then only hidden and re-shown.
type SliderWindow struct {
	opts   SliderOptions
	logger *slog.Logger

	window *gtk.Window
	box    *gtk.Box
	scale  *gtk.Scale
	xid    xproto.Window

	// updating is set while the scale is moved programmatically so the
	// value-changed handler does not report a drag.
	updating bool

	onDrag  func(value float64)
	onEnter func()
	onLeave func()
}

var _ dimmer.SliderView = (*SliderWindow)(nil)

// NewSliderWindow creates the view. No GTK objects exist until Create.
func NewSliderWindow(opts SliderOptions) *SliderWindow {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SliderWindow{opts: opts, logger: logger}
}

// OnDrag sets the callback for user moves of the scale.
func (s *SliderWindow) OnDrag(cb func(value float64)) {
	s.onDrag = cb
}

// OnPointer sets the callbacks for the pointer entering and leaving the
// popup.
func (s *SliderWindow) OnPointer(enter, leave func()) {
	s.onEnter = enter
	s.onLeave = leave
}

// Create builds and presents the popup.
func (s *SliderWindow) Create(value float64) {
	geom := s.opts.Geometry

	s.window = gtk.NewWindow()
	s.window.SetApplication(s.opts.App)
	s.window.SetTitle(sliderTitle)
	s.window.SetDecorated(false)
	s.window.SetResizable(false)
	s.window.SetDefaultSize(geom.Width, geom.Height)
	s.window.SetSizeRequest(geom.Width, geom.Height)
	s.window.SetOpacity(geom.Opacity)
	s.window.AddCSSClass(theme.ClassSliderWindow)

	s.box = gtk.NewBox(gtk.OrientationVertical, 4)
	s.box.AddCSSClass(theme.ClassSlider)
	if s.opts.SchemeClass != nil {
		s.box.AddCSSClass(s.opts.SchemeClass())
	}

	label := gtk.NewLabel(sliderLabel)
	label.AddCSSClass(theme.ClassSliderLabel)
	label.SetHAlign(gtk.AlignStart)
	s.box.Append(label)

	s.scale = gtk.NewScaleWithRange(gtk.OrientationHorizontal, dimmer.MinBrightness, dimmer.MaxBrightness, 1)
	s.scale.SetDrawValue(false)
	s.scale.SetHExpand(true)
	s.scale.SetValue(value)
	s.scale.ConnectValueChanged(func() {
		if s.updating || s.onDrag == nil {
			return
		}
		s.onDrag(s.scale.Value())
	})
	s.box.Append(s.scale)

	motion := gtk.NewEventControllerMotion()
	motion.ConnectEnter(func(x, y float64) {
		if s.onEnter != nil {
			s.onEnter()
		}
	})
	motion.ConnectLeave(func() {
		if s.onLeave != nil {
			s.onLeave()
		}
	})
	s.window.AddController(motion)
	s.window.SetChild(s.box)

	switch s.opts.Backend {
	case BackendLayerShell:
		layershell.InitForWindow(s.window)
		layershell.SetLayer(s.window, layershell.LayerShellLayerOverlay)
		layershell.SetExclusiveZone(s.window, 0)
		layershell.SetKeyboardMode(s.window, layershell.LayerShellKeyboardModeNone)
		layershell.SetNamespace(s.window, sliderNamespace)
		// Bottom-only anchor centers the surface horizontally.
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeBottom, geom.BottomMargin)
		if s.opts.Monitor != nil {
			layershell.SetMonitor(s.window, s.opts.Monitor)
		}
	case BackendX11:
		s.window.ConnectMap(func() {
			s.opts.Scheduler.After(passthroughReassertDelay, s.placeX11)
		})
	}

	s.window.Present()
	s.logger.Debug("slider window created", "backend", s.opts.Backend.String())
}

// Reveal re-shows a withdrawn popup and raises it.
func (s *SliderWindow) Reveal() {
	if s.window == nil {
		return
	}
	s.window.SetVisible(true)
	s.window.Present()
}

// Withdraw hides the popup.
func (s *SliderWindow) Withdraw() {
	if s.window == nil {
		return
	}
	s.window.SetVisible(false)
}

// SetValue moves the scale without reporting a drag.
func (s *SliderWindow) SetValue(value float64) {
	if s.scale == nil {
		return
	}
	s.updating = true
	s.scale.SetValue(value)
	s.updating = false
}

// SetGeometry applies new size, margin and opacity. Takes effect
// immediately when the popup exists.
func (s *SliderWindow) SetGeometry(geom SliderGeometry) {
	s.opts.Geometry = geom
	if s.window == nil {
		return
	}
	s.window.SetDefaultSize(geom.Width, geom.Height)
	s.window.SetSizeRequest(geom.Width, geom.Height)
	s.window.SetOpacity(geom.Opacity)

	switch s.opts.Backend {
	case BackendLayerShell:
		layershell.SetMargin(s.window, layershell.LayerShellEdgeBottom, geom.BottomMargin)
	case BackendX11:
		if s.window.Visible() {
			s.placeX11()
		}
	}
}

// SetSchemeClass swaps the light/dark class on a built popup.
func (s *SliderWindow) SetSchemeClass(class string) {
	if s.box == nil {
		return
	}
	s.box.RemoveCSSClass("light")
	s.box.RemoveCSSClass("dark")
	s.box.AddCSSClass(class)
}

// Close destroys the window if it was built.
func (s *SliderWindow) Close() {
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
		s.scale = nil
		s.box = nil
	}
}

// placeX11 moves the popup to its computed position and keeps it above
// the overlay.
func (s *SliderWindow) placeX11() {
	client := s.opts.X11
	if client == nil || s.window == nil {
		return
	}

	screenW, screenH, ok := MonitorSize(s.opts.Monitor)
	if !ok {
		screenW, screenH = client.ScreenSize()
	}
	geom := s.opts.Geometry
	rect := dimmer.SliderRect(screenW, screenH, geom.Width, geom.Height, geom.BottomMargin)

	win, err := x11Window(client, sliderTitle, &s.xid)
	if err != nil {
		s.logger.Warn("failed to find slider window", "error", err)
		return
	}
	if err := client.Move(win, rect.X, rect.Y); err != nil {
		s.logger.Warn("failed to position slider", "error", err)
	}
	if err := client.SetAbove(win, true); err != nil {
		s.logger.Warn("failed to keep slider on top", "error", err)
	}
}
