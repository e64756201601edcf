package dimmer

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
)

// ChangeListener is called on the UI thread after every brightness change.
type ChangeListener func(brightness float64)

// Options configures a Controller.
type Options struct {
	Overlay   Overlay
	Slider    *Slider
	Scheduler Scheduler
	Logger    *slog.Logger

	// Initial brightness; zero means DefaultBrightness.
	Initial float64
	// Step applied by Increase and Decrease; zero means DefaultStep.
	Step float64
	// OnQuit tears the application down. Runs on the UI thread.
	OnQuit func()
}

// Controller owns the brightness value. Methods without the Request prefix
// must be called on the UI thread.
type Controller struct {
	overlay Overlay
	slider  *Slider
	sched   Scheduler
	logger  *slog.Logger
	onQuit  func()

	brightness float64
	step       float64

	// published mirrors brightness for readers off the UI thread.
	published atomic.Uint64

	mu        sync.Mutex
	listeners []ChangeListener
}

// NewController creates a controller. Call Apply once the overlay exists to
// push the initial opacity.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	initial := opts.Initial
	if initial == 0 {
		initial = DefaultBrightness
	}
	step := opts.Step
	if step <= 0 {
		step = DefaultStep
	}

	c := &Controller{
		overlay:    opts.Overlay,
		slider:     opts.Slider,
		sched:      opts.Scheduler,
		logger:     logger,
		onQuit:     opts.OnQuit,
		brightness: Clamp(initial),
		step:       step,
	}
	c.published.Store(math.Float64bits(c.brightness))
	return c
}

// OnChange registers a listener for brightness changes.
func (c *Controller) OnChange(l ChangeListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Brightness returns the current value. UI thread only.
func (c *Controller) Brightness() float64 {
	return c.brightness
}

// Snapshot returns the last published brightness. Safe from any goroutine.
func (c *Controller) Snapshot() float64 {
	return math.Float64frombits(c.published.Load())
}

// StepSize returns the hotkey increment.
func (c *Controller) StepSize() float64 {
	return c.step
}

// SetStep changes the hotkey increment.
func (c *Controller) SetStep(step float64) {
	if step <= 0 {
		step = DefaultStep
	}
	c.step = step
}

// Slider returns the slider state machine.
func (c *Controller) Slider() *Slider {
	return c.slider
}

// Apply pushes the current brightness to the overlay without notifying
// listeners.
func (c *Controller) Apply() {
	if c.overlay != nil {
		c.overlay.SetAlpha(Alpha(c.brightness))
	}
}

// SetBrightness clamps v and applies it to the overlay.
func (c *Controller) SetBrightness(v float64) float64 {
	v = Clamp(v)
	changed := v != c.brightness
	c.brightness = v
	c.published.Store(math.Float64bits(v))
	c.Apply()

	if changed {
		c.logger.Debug("brightness changed", "brightness", v, "alpha", Alpha(v))
		c.notify(v)
	}
	return v
}

// Adjust moves brightness by delta, syncs the slider and shows it.
// This is what the hotkeys do.
func (c *Controller) Adjust(delta float64) float64 {
	return c.Set(c.brightness + delta)
}

// Increase raises brightness by one step.
func (c *Controller) Increase() float64 {
	return c.Adjust(c.step)
}

// Decrease lowers brightness by one step.
func (c *Controller) Decrease() float64 {
	return c.Adjust(-c.step)
}

// Set applies an absolute value, syncs the slider and shows it.
func (c *Controller) Set(v float64) float64 {
	v = c.SetBrightness(v)
	if c.slider != nil {
		c.slider.Sync(v)
		c.slider.Show(v)
	}
	return v
}

// Drag handles the user moving the slider scale.
func (c *Controller) Drag(v float64) {
	c.SetBrightness(v)
	if c.slider != nil {
		c.slider.Dragged()
	}
}

// ShowSlider presents the slider popup with the current value.
func (c *Controller) ShowSlider() {
	if c.slider != nil {
		c.slider.Show(c.brightness)
	}
}

// Quit runs the shutdown hook.
func (c *Controller) Quit() {
	c.logger.Info("quit requested")
	if c.onQuit != nil {
		c.onQuit()
	}
}

// RequestIncrease enqueues Increase on the UI thread.
func (c *Controller) RequestIncrease() {
	c.sched.Post(func() { c.Increase() })
}

// RequestDecrease enqueues Decrease on the UI thread.
func (c *Controller) RequestDecrease() {
	c.sched.Post(func() { c.Decrease() })
}

// RequestSet enqueues Set on the UI thread.
func (c *Controller) RequestSet(v float64) {
	c.sched.Post(func() { c.Set(v) })
}

// RequestShowSlider enqueues ShowSlider on the UI thread.
func (c *Controller) RequestShowSlider() {
	c.sched.Post(c.ShowSlider)
}

// RequestQuit enqueues Quit on the UI thread.
func (c *Controller) RequestQuit() {
	c.sched.Post(c.Quit)
}

func (c *Controller) notify(v float64) {
	c.mu.Lock()
	listeners := make([]ChangeListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l(v)
	}
}
