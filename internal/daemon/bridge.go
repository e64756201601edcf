package daemon

import (
	"errors"
	"time"

	"github.com/jmylchreest/shade/internal/dimmer"
)

// DefaultBridgeTimeout bounds how long a D-Bus call waits for the UI
// thread.
const DefaultBridgeTimeout = 2 * time.Second

// ErrUIBusy is returned when the UI thread did not run a request in time.
var ErrUIBusy = errors.New("timed out waiting for the UI thread")

// Bridge runs control requests from D-Bus goroutines on the UI thread and
// waits for their result.
type Bridge struct {
	ctrl    *dimmer.Controller
	sched   dimmer.Scheduler
	timeout time.Duration
}

// NewBridge creates a bridge. A zero timeout means DefaultBridgeTimeout.
func NewBridge(ctrl *dimmer.Controller, sched dimmer.Scheduler, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultBridgeTimeout
	}
	return &Bridge{ctrl: ctrl, sched: sched, timeout: timeout}
}

// Increase raises brightness by one step and shows the slider.
func (b *Bridge) Increase() (float64, error) {
	return b.run(b.ctrl.Increase)
}

// Decrease lowers brightness by one step and shows the slider.
func (b *Bridge) Decrease() (float64, error) {
	return b.run(b.ctrl.Decrease)
}

// SetBrightness applies an absolute value and shows the slider.
func (b *Bridge) SetBrightness(v float64) (float64, error) {
	return b.run(func() float64 { return b.ctrl.Set(v) })
}

// Brightness returns the published snapshot without touching the UI
// thread.
func (b *Bridge) Brightness() float64 {
	return b.ctrl.Snapshot()
}

// ShowSlider presents the slider popup.
func (b *Bridge) ShowSlider() error {
	_, err := b.run(func() float64 {
		b.ctrl.ShowSlider()
		return b.ctrl.Brightness()
	})
	return err
}

// Quit requests shutdown and returns at once so the reply can go out
// before the bus connection closes.
func (b *Bridge) Quit() error {
	b.ctrl.RequestQuit()
	return nil
}

func (b *Bridge) run(fn func() float64) (float64, error) {
	result := make(chan float64, 1)
	b.sched.Post(func() {
		result <- fn()
	})

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case v := <-result:
		return v, nil
	case <-timer.C:
		return 0, ErrUIBusy
	}
}
