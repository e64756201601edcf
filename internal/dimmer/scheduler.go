package dimmer

import "time"

// Timer is a pending callback scheduled on the UI thread.
type Timer interface {
	// Stop cancels the callback. Stopping a timer that already fired is a no-op.
	Stop()
}

// Scheduler is the UI thread's serialized queue.
type Scheduler interface {
	// Post enqueues fn to run on the UI thread. Safe from any goroutine.
	Post(fn func())
	// After runs fn on the UI thread once d has elapsed. UI thread only.
	After(d time.Duration, fn func()) Timer
}

// Overlay is the full-screen dimming window.
type Overlay interface {
	SetAlpha(alpha float64)
}

// SliderView is the toolkit side of the slider popup.
type SliderView interface {
	// Create builds the popup window showing value and presents it.
	Create(value float64)
	// Reveal re-presents an existing, possibly withdrawn, popup and raises it.
	Reveal()
	// Withdraw hides the popup without destroying it.
	Withdraw()
	// SetValue moves the scale without reporting a drag.
	SetValue(value float64)
}
