package dimmer

import (
	"log/slog"
	"time"
)

// SliderState is the visibility of the slider popup.
type SliderState int

const (
	SliderHidden SliderState = iota
	SliderVisible
)

func (s SliderState) String() string {
	switch s {
	case SliderHidden:
		return "hidden"
	case SliderVisible:
		return "visible"
	default:
		return "unknown"
	}
}

// Slider drives a SliderView through the Hidden/Visible state machine and
// owns the single pending auto-hide timer.
type Slider struct {
	view   SliderView
	sched  Scheduler
	logger *slog.Logger

	delay   time.Duration
	created bool
	state   SliderState
	timer   Timer
}

// NewSlider creates a slider. The view is not built until the first Show.
func NewSlider(view SliderView, sched Scheduler, delay time.Duration, logger *slog.Logger) *Slider {
	if logger == nil {
		logger = slog.Default()
	}
	if delay <= 0 {
		delay = DefaultHideDelay
	}
	return &Slider{
		view:   view,
		sched:  sched,
		logger: logger,
		delay:  delay,
	}
}

// Show builds the popup on first use, otherwise reveals the existing one,
// then restarts the auto-hide countdown.
func (s *Slider) Show(value float64) {
	if !s.created {
		s.view.Create(value)
		s.created = true
		s.logger.Debug("slider created", "value", value)
	} else {
		s.view.Reveal()
	}
	s.state = SliderVisible
	s.resetTimer()
}

// Sync moves the scale to value if the popup exists.
func (s *Slider) Sync(value float64) {
	if s.created {
		s.view.SetValue(value)
	}
}

// Dragged restarts the countdown after the user moved the scale.
func (s *Slider) Dragged() {
	s.resetTimer()
}

// PointerEnter keeps the popup open while the pointer is over it.
func (s *Slider) PointerEnter() {
	s.cancelTimer()
}

// PointerLeave restarts the countdown.
func (s *Slider) PointerLeave() {
	s.resetTimer()
}

// SetDelay changes the auto-hide delay used by subsequent resets.
func (s *Slider) SetDelay(d time.Duration) {
	if d <= 0 {
		d = DefaultHideDelay
	}
	s.delay = d
}

// State returns the current visibility.
func (s *Slider) State() SliderState {
	return s.state
}

// Created reports whether the popup window has been built.
func (s *Slider) Created() bool {
	return s.created
}

// TimerPending reports whether an auto-hide is scheduled.
func (s *Slider) TimerPending() bool {
	return s.timer != nil
}

func (s *Slider) resetTimer() {
	s.cancelTimer()
	var t Timer
	t = s.sched.After(s.delay, func() {
		// A stale timer must never hide a popup it no longer owns.
		if s.timer != t {
			return
		}
		s.timer = nil
		s.hide()
	})
	s.timer = t
}

func (s *Slider) cancelTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Slider) hide() {
	if !s.created || s.state == SliderHidden {
		return
	}
	s.view.Withdraw()
	s.state = SliderHidden
	s.logger.Debug("slider hidden")
}
