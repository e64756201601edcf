package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/jmylchreest/shade/internal/dimmer"
)

// MainLoop schedules work on the GLib main context.
type MainLoop struct{}

var _ dimmer.Scheduler = MainLoop{}

// Post queues fn as an idle source. Safe from any goroutine.
func (MainLoop) Post(fn func()) {
	glib.IdleAdd(func() bool {
		fn()
		return false
	})
}

// After runs fn once on the main context after d. Main thread only.
func (MainLoop) After(d time.Duration, fn func()) dimmer.Timer {
	t := &sourceTimer{}
	t.handle = glib.TimeoutAdd(uint(d.Milliseconds()), func() bool {
		t.done = true
		fn()
		return false
	})
	return t
}

type sourceTimer struct {
	handle glib.SourceHandle
	done   bool
}

// Stop removes the source unless it already ran or was removed.
func (t *sourceTimer) Stop() {
	if t.done {
		return
	}
	t.done = true
	glib.SourceRemove(t.handle)
}
