package dimmer

import (
	"sort"
	"time"
)

// fakeScheduler runs posted work on demand and fires timers against a
// manual clock.
type fakeScheduler struct {
	now    time.Duration
	posted []func()
	timers []*fakeTimer
	seq    int
}

type fakeTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() { t.stopped = true }

func (s *fakeScheduler) Post(fn func()) {
	s.posted = append(s.posted, fn)
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Timer {
	s.seq++
	t := &fakeTimer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Drain runs posted functions in order until the queue is empty.
func (s *fakeScheduler) Drain() {
	for len(s.posted) > 0 {
		fn := s.posted[0]
		s.posted = s.posted[1:]
		fn()
	}
}

// Advance moves the clock forward and fires due timers in order.
func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		due := s.due(target)
		if due == nil {
			break
		}
		s.now = due.at
		due.fired = true
		due.fn()
	}
	s.now = target
}

// Pending counts timers that are neither stopped nor fired.
func (s *fakeScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (s *fakeScheduler) due(target time.Duration) *fakeTimer {
	var live []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= target {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].at == live[j].at {
			return live[i].seq < live[j].seq
		}
		return live[i].at < live[j].at
	})
	return live[0]
}

type fakeView struct {
	creates   int
	reveals   int
	withdraws int
	value     float64
	visible   bool
}

func (v *fakeView) Create(value float64) {
	v.creates++
	v.value = value
	v.visible = true
}

func (v *fakeView) Reveal() {
	v.reveals++
	v.visible = true
}

func (v *fakeView) Withdraw() {
	v.withdraws++
	v.visible = false
}

func (v *fakeView) SetValue(value float64) { v.value = value }

type fakeOverlay struct {
	alphas []float64
}

func (o *fakeOverlay) SetAlpha(alpha float64) { o.alphas = append(o.alphas, alpha) }

func (o *fakeOverlay) last() float64 {
	if len(o.alphas) == 0 {
		return -1
	}
	return o.alphas[len(o.alphas)-1]
}
