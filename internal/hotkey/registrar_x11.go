//go:build linux

package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/jmylchreest/shade/internal/config"
	"github.com/jmylchreest/shade/internal/x11"
)

type grabKey struct {
	keycode xproto.Keycode
	mods    uint16
}

// x11Registrar grabs keys on the root window over its own connection and
// reads key presses from it.
type x11Registrar struct {
	conn       *xgb.Conn
	root       xproto.Window
	minKeycode xproto.Keycode
	maxKeycode xproto.Keycode

	mu     sync.Mutex
	grabs  map[grabKey]*x11Grab
	closed bool
}

type x11Grab struct {
	reg     *x11Registrar
	key     grabKey
	keydown chan struct{}
	once    sync.Once
	err     error
}

func openSystemRegistrar() (Registrar, error) {
	if !x11.Available() {
		return nil, fmt.Errorf("%w: no X display", ErrUnavailable)
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	setup := xproto.Setup(conn)
	r := &x11Registrar{
		conn:       conn,
		root:       setup.DefaultScreen(conn).Root,
		minKeycode: setup.MinKeycode,
		maxKeycode: setup.MaxKeycode,
		grabs:      make(map[grabKey]*x11Grab),
	}
	go r.readEvents()
	return r, nil
}

// Grab claims chord on the root window, including its lock variants.
func (r *x11Registrar) Grab(chord config.Chord) (Grab, error) {
	mods, sym, err := resolve(chord)
	if err != nil {
		return nil, err
	}
	keycode, err := r.keycodeFor(sym)
	if err != nil {
		return nil, err
	}
	key := grabKey{keycode: keycode, mods: mods}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if _, taken := r.grabs[key]; taken {
		return nil, fmt.Errorf("%s is already registered", chord)
	}

	for i, lock := range lockVariants {
		err := xproto.GrabKeyChecked(r.conn, true, r.root, mods|lock, keycode,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
		if err != nil {
			for _, held := range lockVariants[:i] {
				_ = xproto.UngrabKeyChecked(r.conn, keycode, r.root, mods|held).Check()
			}
			return nil, fmt.Errorf("%s is grabbed by another client: %w", chord, err)
		}
	}

	g := &x11Grab{
		reg:     r,
		key:     key,
		keydown: make(chan struct{}, 1),
	}
	r.grabs[key] = g
	return g, nil
}

// Close drops the connection, which releases every grab server-side.
func (r *x11Registrar) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.grabs = nil
	r.mu.Unlock()

	r.conn.Close()
	return nil
}

func (r *x11Registrar) keycodeFor(sym xproto.Keysym) (xproto.Keycode, error) {
	count := byte(r.maxKeycode - r.minKeycode + 1)
	reply, err := xproto.GetKeyboardMapping(r.conn, r.minKeycode, count).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to read keyboard mapping: %w", err)
	}
	per := int(reply.KeysymsPerKeycode)
	if per == 0 {
		return 0, errors.New("empty keyboard mapping")
	}
	for i := 0; i*per < len(reply.Keysyms); i++ {
		for _, s := range reply.Keysyms[i*per : min((i+1)*per, len(reply.Keysyms))] {
			if s == sym {
				return r.minKeycode + xproto.Keycode(i), nil
			}
		}
	}
	return 0, fmt.Errorf("no key on this keyboard produces keysym %#x", uint32(sym))
}

// readEvents forwards key presses until the connection is closed.
func (r *x11Registrar) readEvents() {
	for {
		ev, err := r.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		if err != nil {
			continue
		}
		press, ok := ev.(xproto.KeyPressEvent)
		if !ok {
			continue
		}
		r.dispatch(grabKey{keycode: press.Detail, mods: press.State & chordMask})
	}
}

func (r *x11Registrar) dispatch(key grabKey) {
	r.mu.Lock()
	g := r.grabs[key]
	r.mu.Unlock()
	if g == nil {
		return
	}
	select {
	case g.keydown <- struct{}{}:
	default:
	}
}

func (r *x11Registrar) ungrab(g *x11Grab) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	delete(r.grabs, g.key)

	var errs []error
	for _, lock := range lockVariants {
		if err := xproto.UngrabKeyChecked(r.conn, g.key.keycode, r.root, g.key.mods|lock).Check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *x11Grab) Keydown() <-chan struct{} {
	return g.keydown
}

// Release ungrabs the chord. It is a request round trip and never waits
// for a key event.
func (g *x11Grab) Release() error {
	g.once.Do(func() {
		g.err = g.reg.ungrab(g)
	})
	return g.err
}
