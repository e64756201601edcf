//go:build darwin || windows

package hotkey

import (
	"sync"

	"golang.design/x/hotkey"

	"github.com/jmylchreest/shade/internal/config"
)

// hotkeyRegistrar registers chords with the OS hotkey API.
type hotkeyRegistrar struct{}

type hotkeyGrab struct {
	hk      *hotkey.Hotkey
	keydown chan struct{}
	stop    chan struct{}
	once    sync.Once
	err     error
}

func openSystemRegistrar() (Registrar, error) {
	return hotkeyRegistrar{}, nil
}

func (hotkeyRegistrar) Grab(chord config.Chord) (Grab, error) {
	mods, key, err := resolve(chord)
	if err != nil {
		return nil, err
	}
	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, err
	}

	g := &hotkeyGrab{
		hk:      hk,
		keydown: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	go g.forward()
	return g, nil
}

func (hotkeyRegistrar) Close() error {
	return nil
}

func (g *hotkeyGrab) forward() {
	events := g.hk.Keydown()
	for {
		select {
		case <-g.stop:
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			select {
			case g.keydown <- struct{}{}:
			default:
			}
		}
	}
}

func (g *hotkeyGrab) Keydown() <-chan struct{} {
	return g.keydown
}

func (g *hotkeyGrab) Release() error {
	g.once.Do(func() {
		close(g.stop)
		g.err = g.hk.Unregister()
	})
	return g.err
}
