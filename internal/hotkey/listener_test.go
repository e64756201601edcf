package hotkey

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/shade/internal/config"
)

type fakeRegistrar struct {
	mu       sync.Mutex
	grabs    map[string]*fakeGrab
	released []string
	closed   int
	grabErr  error
	block    chan struct{} // when set, Release waits on it
}

type fakeGrab struct {
	reg     *fakeRegistrar
	name    string
	keydown chan struct{}
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{grabs: make(map[string]*fakeGrab)}
}

func (r *fakeRegistrar) Grab(chord config.Chord) (Grab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.grabErr != nil {
		return nil, r.grabErr
	}
	g := &fakeGrab{reg: r, name: chord.String(), keydown: make(chan struct{}, 1)}
	r.grabs[g.name] = g
	return g, nil
}

func (r *fakeRegistrar) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func (r *fakeRegistrar) press(name string) {
	r.mu.Lock()
	g := r.grabs[name]
	r.mu.Unlock()
	g.keydown <- struct{}{}
}

func (r *fakeRegistrar) state() (held []string, released []string, closed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.grabs {
		held = append(held, name)
	}
	return held, append([]string(nil), r.released...), r.closed
}

func (g *fakeGrab) Keydown() <-chan struct{} { return g.keydown }

func (g *fakeGrab) Release() error {
	if g.reg.block != nil {
		<-g.reg.block
	}
	g.reg.mu.Lock()
	defer g.reg.mu.Unlock()
	delete(g.reg.grabs, g.name)
	g.reg.released = append(g.reg.released, g.name)
	return nil
}

func mustChord(t *testing.T, s string) config.Chord {
	t.Helper()
	chord, err := config.ParseChord(s)
	require.NoError(t, err)
	return chord
}

func TestListener_DispatchesKeydown(t *testing.T) {
	reg := newFakeRegistrar()
	l := NewListenerWithRegistrar(reg, nil)
	defer l.Close()

	pressed := make(chan string, 4)
	require.NoError(t, l.Register(mustChord(t, "alt+q"), func() { pressed <- "dec" }))
	require.NoError(t, l.Register(mustChord(t, "alt+w"), func() { pressed <- "inc" }))
	assert.Len(t, l.Chords(), 2)

	reg.press("alt+w")
	assert.Equal(t, "inc", <-pressed)
	reg.press("alt+q")
	assert.Equal(t, "dec", <-pressed)
}

func TestListener_CloseReleasesEverything(t *testing.T) {
	reg := newFakeRegistrar()
	l := NewListenerWithRegistrar(reg, nil)

	require.NoError(t, l.Register(mustChord(t, "alt+q"), func() {}))
	require.NoError(t, l.Register(mustChord(t, "alt+w"), func() {}))

	l.Close()

	held, released, closed := reg.state()
	assert.Empty(t, held)
	assert.ElementsMatch(t, []string{"alt+q", "alt+w"}, released)
	assert.Equal(t, 1, closed)
	assert.Empty(t, l.Chords())
}

func TestListener_CloseIdempotent(t *testing.T) {
	reg := newFakeRegistrar()
	l := NewListenerWithRegistrar(reg, nil)
	require.NoError(t, l.Register(mustChord(t, "alt+q"), func() {}))

	l.Close()
	assert.NotPanics(t, l.Close)

	_, released, closed := reg.state()
	assert.Len(t, released, 1)
	assert.Equal(t, 1, closed)
	assert.ErrorIs(t, l.Register(mustChord(t, "alt+q"), func() {}), ErrClosed)
}

func TestListener_UnregisterAllKeepsListenerUsable(t *testing.T) {
	reg := newFakeRegistrar()
	l := NewListenerWithRegistrar(reg, nil)
	defer l.Close()

	require.NoError(t, l.Register(mustChord(t, "alt+q"), func() {}))
	l.UnregisterAll()

	held, released, closed := reg.state()
	assert.Empty(t, held)
	assert.Equal(t, []string{"alt+q"}, released)
	assert.Zero(t, closed)

	pressed := make(chan struct{}, 1)
	require.NoError(t, l.Register(mustChord(t, "ctrl+f1"), func() { pressed <- struct{}{} }))
	reg.press("ctrl+f1")
	<-pressed
}

func TestListener_ReleaseIsBounded(t *testing.T) {
	reg := newFakeRegistrar()
	reg.block = make(chan struct{})
	defer close(reg.block)

	l := NewListenerWithRegistrar(reg, nil)
	l.SetReleaseTimeout(50 * time.Millisecond)
	require.NoError(t, l.Register(mustChord(t, "alt+q"), func() {}))

	start := time.Now()
	l.Close()
	assert.Less(t, time.Since(start), time.Second)
}

func TestListener_GrabError(t *testing.T) {
	reg := newFakeRegistrar()
	reg.grabErr = errors.New("BadAccess")
	l := NewListenerWithRegistrar(reg, nil)
	defer l.Close()

	err := l.Register(mustChord(t, "alt+q"), func() {})
	assert.ErrorContains(t, err, "BadAccess")
	assert.Empty(t, l.Chords())
}

func TestListener_OpensRegistrarLazily(t *testing.T) {
	opened := 0
	l := newListener(func() (Registrar, error) {
		opened++
		return nil, ErrUnavailable
	}, nil)

	assert.Zero(t, opened)
	l.Close()
	assert.Zero(t, opened, "closing an unused listener must not open the registrar")

	l = newListener(func() (Registrar, error) {
		opened++
		return nil, ErrUnavailable
	}, nil)
	err := l.Register(mustChord(t, "alt+q"), func() {})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, opened)
}
