package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/shade/internal/config"
)

var (
	// ErrClosed is returned when registering on a closed Listener.
	ErrClosed = errors.New("hotkey listener closed")
	// ErrUnavailable is returned when the session offers no way to grab
	// keys globally, such as Wayland without an X server.
	ErrUnavailable = errors.New("global hotkeys unavailable")
)

// DefaultReleaseTimeout bounds how long Close and UnregisterAll wait for
// the platform to release grabs.
const DefaultReleaseTimeout = time.Second

// Registrar grabs chords system-wide.
type Registrar interface {
	Grab(chord config.Chord) (Grab, error)
	// Close drops every grab and the underlying connection.
	Close() error
}

// Grab is one registered chord. Release must not wait for user input.
type Grab interface {
	Keydown() <-chan struct{}
	Release() error
}

type binding struct {
	chord  config.Chord
	grab   Grab
	action func()
	done   chan struct{}
	exited chan struct{}
}

// Listener owns a set of registered global hotkeys. The platform registrar
// is opened on the first Register, so a listener that never registers
// needs no display.
type Listener struct {
	logger  *slog.Logger
	open    func() (Registrar, error)
	timeout time.Duration

	mu       sync.Mutex
	reg      Registrar
	bindings []*binding
	closed   bool
}

// NewListener creates an empty listener on the platform registrar.
func NewListener(logger *slog.Logger) *Listener {
	return newListener(openSystemRegistrar, logger)
}

// NewListenerWithRegistrar creates an empty listener on reg.
func NewListenerWithRegistrar(reg Registrar, logger *slog.Logger) *Listener {
	return newListener(func() (Registrar, error) { return reg, nil }, logger)
}

func newListener(open func() (Registrar, error), logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		logger:  logger,
		open:    open,
		timeout: DefaultReleaseTimeout,
	}
}

// SetReleaseTimeout sets the bound on waiting for grabs to be released.
func (l *Listener) SetReleaseTimeout(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timeout = d
}

// Register grabs chord system-wide and calls action on every key press.
// action runs on a listener goroutine.
func (l *Listener) Register(chord config.Chord, action func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	if l.reg == nil {
		reg, err := l.open()
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", chord, err)
		}
		l.reg = reg
	}

	grab, err := l.reg.Grab(chord)
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", chord, err)
	}

	b := &binding{
		chord:  chord,
		grab:   grab,
		action: action,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	l.bindings = append(l.bindings, b)

	go l.listen(b)

	l.logger.Info("registered hotkey", "chord", chord.String())
	return nil
}

// Chords returns the currently registered chords.
func (l *Listener) Chords() []config.Chord {
	l.mu.Lock()
	defer l.mu.Unlock()
	chords := make([]config.Chord, len(l.bindings))
	for i, b := range l.bindings {
		chords[i] = b.chord
	}
	return chords
}

// UnregisterAll releases every chord but keeps the listener usable.
func (l *Listener) UnregisterAll() {
	l.mu.Lock()
	bindings := l.bindings
	l.bindings = nil
	timeout := l.timeout
	l.mu.Unlock()

	l.release(bindings, nil, timeout)
}

// Close releases every chord and the platform registrar. Safe to call more
// than once.
func (l *Listener) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	bindings := l.bindings
	l.bindings = nil
	reg := l.reg
	l.reg = nil
	timeout := l.timeout
	l.mu.Unlock()

	l.release(bindings, reg, timeout)
}

// release stops the listener goroutines, then releases the grabs and
// closes reg, if any, giving up after timeout.
func (l *Listener) release(bindings []*binding, reg Registrar, timeout time.Duration) {
	for _, b := range bindings {
		close(b.done)
	}
	for _, b := range bindings {
		<-b.exited
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for _, b := range bindings {
			if err := b.grab.Release(); err != nil {
				l.logger.Warn("failed to unregister hotkey", "chord", b.chord.String(), "error", err)
			} else {
				l.logger.Debug("unregistered hotkey", "chord", b.chord.String())
			}
		}
		if reg != nil {
			if err := reg.Close(); err != nil {
				l.logger.Warn("failed to close hotkey registrar", "error", err)
			}
		}
	}()

	select {
	case <-finished:
	case <-time.After(timeout):
		l.logger.Warn("gave up waiting for hotkeys to be released", "timeout", timeout)
	}
}

func (l *Listener) listen(b *binding) {
	defer close(b.exited)
	keydown := b.grab.Keydown()
	for {
		select {
		case <-b.done:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			l.logger.Debug("hotkey pressed", "chord", b.chord.String())
			b.action()
		}
	}
}
