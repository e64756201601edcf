package dimmer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlider() (*Slider, *fakeView, *fakeScheduler) {
	view := &fakeView{}
	sched := &fakeScheduler{}
	return NewSlider(view, sched, DefaultHideDelay, nil), view, sched
}

func TestSlider_ShowCreatesOnce(t *testing.T) {
	s, view, _ := newTestSlider()

	s.Show(80)
	s.Show(75)
	s.Show(70)

	assert.Equal(t, 1, view.creates, "popup must be built only once")
	assert.Equal(t, 2, view.reveals)
	assert.Equal(t, SliderVisible, s.State())
	assert.Equal(t, 80.0, view.value, "Show does not move the scale, Sync does")
}

func TestSlider_AutoHideAfterDelay(t *testing.T) {
	s, view, sched := newTestSlider()

	s.Show(80)
	sched.Advance(1999 * time.Millisecond)
	assert.Equal(t, SliderVisible, s.State())
	assert.True(t, view.visible)

	sched.Advance(time.Millisecond)
	assert.Equal(t, SliderHidden, s.State())
	assert.False(t, view.visible)
	assert.Equal(t, 1, view.withdraws)
	assert.False(t, s.TimerPending())
}

func TestSlider_HiddenPopupIsReused(t *testing.T) {
	s, view, sched := newTestSlider()

	s.Show(80)
	sched.Advance(2 * time.Second)
	require.Equal(t, SliderHidden, s.State())

	s.Show(80)
	assert.Equal(t, 1, view.creates)
	assert.Equal(t, 1, view.reveals)
	assert.Equal(t, SliderVisible, s.State())
}

func TestSlider_DragResetsCountdown(t *testing.T) {
	s, _, sched := newTestSlider()

	s.Show(80)
	sched.Advance(1500 * time.Millisecond)
	s.Dragged()
	sched.Advance(1500 * time.Millisecond)
	assert.Equal(t, SliderVisible, s.State(), "drag at 1.5s pushes the deadline to 3.5s")

	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, SliderHidden, s.State())
}

func TestSlider_PointerEnterCancels(t *testing.T) {
	s, _, sched := newTestSlider()

	s.Show(80)
	sched.Advance(time.Second)
	s.PointerEnter()
	assert.False(t, s.TimerPending())

	sched.Advance(time.Minute)
	assert.Equal(t, SliderVisible, s.State(), "popup stays while the pointer is over it")

	s.PointerLeave()
	sched.Advance(1999 * time.Millisecond)
	assert.Equal(t, SliderVisible, s.State())
	sched.Advance(time.Millisecond)
	assert.Equal(t, SliderHidden, s.State())
}

func TestSlider_SingleOutstandingTimer(t *testing.T) {
	s, _, sched := newTestSlider()

	s.Show(80)
	s.Show(80)
	s.Dragged()
	s.PointerLeave()
	s.Show(80)

	assert.Equal(t, 1, sched.Pending())
}

func TestSlider_SyncBeforeCreateIsNoop(t *testing.T) {
	s, view, _ := newTestSlider()

	s.Sync(42)
	assert.Equal(t, 0.0, view.value)
	assert.False(t, s.Created())

	s.Show(42)
	s.Sync(55)
	assert.Equal(t, 55.0, view.value)
}

func TestSlider_SetDelay(t *testing.T) {
	s, _, sched := newTestSlider()
	s.SetDelay(500 * time.Millisecond)

	s.Show(80)
	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, SliderHidden, s.State())
}

func TestSliderStateString(t *testing.T) {
	assert.Equal(t, "hidden", SliderHidden.String())
	assert.Equal(t, "visible", SliderVisible.String())
	assert.Equal(t, "unknown", SliderState(7).String())
}
