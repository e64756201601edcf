package dimmer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRig struct {
	ctrl    *Controller
	overlay *fakeOverlay
	view    *fakeView
	sched   *fakeScheduler
	quits   int
}

func newRig(t *testing.T) *testRig {
	t.Helper()
	r := &testRig{
		overlay: &fakeOverlay{},
		view:    &fakeView{},
		sched:   &fakeScheduler{},
	}
	slider := NewSlider(r.view, r.sched, DefaultHideDelay, nil)
	r.ctrl = NewController(Options{
		Overlay:   r.overlay,
		Slider:    slider,
		Scheduler: r.sched,
		OnQuit:    func() { r.quits++ },
	})
	r.ctrl.Apply()
	return r
}

func TestController_Defaults(t *testing.T) {
	r := newRig(t)

	assert.Equal(t, 80.0, r.ctrl.Brightness())
	assert.Equal(t, 80.0, r.ctrl.Snapshot())
	assert.Equal(t, 5.0, r.ctrl.StepSize())
	assert.InDelta(t, 0.18, r.overlay.last(), 1e-9)
}

func TestController_InitialIsClamped(t *testing.T) {
	c := NewController(Options{Initial: 3, Scheduler: &fakeScheduler{}})
	assert.Equal(t, 10.0, c.Brightness())
}

func TestController_DecreaseToFloor(t *testing.T) {
	r := newRig(t)

	for range 14 {
		r.ctrl.Decrease()
	}
	assert.Equal(t, 10.0, r.ctrl.Brightness())

	r.ctrl.Decrease()
	assert.Equal(t, 10.0, r.ctrl.Brightness(), "no further decrease past the floor")
	assert.InDelta(t, 0.81, r.overlay.last(), 1e-9)
}

func TestController_DecreaseFrom12StopsAt10(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetBrightness(12)

	assert.Equal(t, 10.0, r.ctrl.Decrease())
}

func TestController_IncreaseCapsAt100(t *testing.T) {
	r := newRig(t)
	for range 10 {
		r.ctrl.Increase()
	}
	assert.Equal(t, 100.0, r.ctrl.Brightness())
	assert.InDelta(t, 0.0, r.overlay.last(), 1e-9)
}

func TestController_HotkeyShowsAndSyncsSlider(t *testing.T) {
	r := newRig(t)

	r.ctrl.Decrease()
	assert.Equal(t, 1, r.view.creates)
	assert.Equal(t, 75.0, r.view.value)

	r.ctrl.Decrease()
	assert.Equal(t, 1, r.view.creates)
	assert.Equal(t, 70.0, r.view.value)
	assert.Equal(t, SliderVisible, r.ctrl.Slider().State())
}

func TestController_DragSetsAlpha(t *testing.T) {
	r := newRig(t)
	r.ctrl.ShowSlider()

	r.ctrl.Drag(45)
	assert.Equal(t, 45.0, r.ctrl.Brightness())
	assert.InDelta(t, 0.495, r.overlay.last(), 1e-9)
}

func TestController_DragResetsHideTimer(t *testing.T) {
	r := newRig(t)
	r.ctrl.ShowSlider()

	r.sched.Advance(1900 * time.Millisecond)
	r.ctrl.Drag(50)
	r.sched.Advance(1999 * time.Millisecond)
	assert.Equal(t, SliderVisible, r.ctrl.Slider().State())

	r.sched.Advance(time.Millisecond)
	assert.Equal(t, SliderHidden, r.ctrl.Slider().State())
}

func TestController_RequestsAreDeferred(t *testing.T) {
	r := newRig(t)

	r.ctrl.RequestDecrease()
	r.ctrl.RequestDecrease()
	r.ctrl.RequestIncrease()
	assert.Equal(t, 80.0, r.ctrl.Brightness(), "nothing runs until the UI queue drains")
	assert.Equal(t, 0, r.view.creates)

	r.sched.Drain()
	assert.Equal(t, 75.0, r.ctrl.Brightness())
	assert.Equal(t, 75.0, r.ctrl.Snapshot())
	assert.Equal(t, 1, r.view.creates)
}

func TestController_RequestSetAndShow(t *testing.T) {
	r := newRig(t)

	r.ctrl.RequestSet(250)
	r.ctrl.RequestShowSlider()
	r.sched.Drain()

	assert.Equal(t, 100.0, r.ctrl.Brightness())
	assert.Equal(t, 1, r.view.creates)
	assert.Equal(t, 1, r.view.reveals)
}

func TestController_RequestQuit(t *testing.T) {
	r := newRig(t)

	r.ctrl.RequestQuit()
	assert.Equal(t, 0, r.quits)
	r.sched.Drain()
	assert.Equal(t, 1, r.quits)
}

func TestController_Listeners(t *testing.T) {
	r := newRig(t)
	var seen []float64
	r.ctrl.OnChange(func(b float64) { seen = append(seen, b) })

	r.ctrl.Decrease()
	r.ctrl.SetBrightness(75) // unchanged, not reported
	r.ctrl.Set(40)

	require.Len(t, seen, 2)
	assert.Equal(t, []float64{75, 40}, seen)
}

func TestController_SetStep(t *testing.T) {
	r := newRig(t)
	r.ctrl.SetStep(10)
	assert.Equal(t, 70.0, r.ctrl.Decrease())

	r.ctrl.SetStep(0)
	assert.Equal(t, DefaultStep, r.ctrl.StepSize())
}
