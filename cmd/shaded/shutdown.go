package main

import (
	"log/slog"

	"github.com/jmylchreest/shade/internal/daemon"
	"github.com/jmylchreest/shade/internal/dbus"
	"github.com/jmylchreest/shade/internal/dimmer"
	"github.com/jmylchreest/shade/internal/display"
	"github.com/jmylchreest/shade/internal/hotkey"
	"github.com/jmylchreest/shade/internal/store"
	"github.com/jmylchreest/shade/internal/theme"
	"github.com/jmylchreest/shade/internal/tray"
	"github.com/jmylchreest/shade/internal/x11"
)

// services is everything activate builds. Any field may be nil when
// startup failed part way.
type services struct {
	x11Client     *x11.Client
	themeLoader   *theme.Loader
	overlay       *display.Overlay
	sliderWindow  *display.SliderWindow
	ctrl          *dimmer.Controller
	hotkeys       *hotkey.Listener
	server        *dbus.ControlServer
	trayIcon      *tray.Tray
	configWatcher *daemon.ConfigWatcher
	notifier      *daemon.InternalNotifier
	stateSaver    *store.Saver
}

type shutdownStep struct {
	name string
	run  func() error
}

// shutdownSteps lists teardown in order. The windows go first so the
// screen is undimmed even if a later step stalls.
func (s *services) shutdownSteps() []shutdownStep {
	return []shutdownStep{
		{"tray", func() error {
			if s.trayIcon != nil {
				s.trayIcon.Stop()
			}
			return nil
		}},
		{"config watcher", func() error {
			if s.configWatcher != nil {
				s.configWatcher.Stop()
			}
			return nil
		}},
		{"slider window", func() error {
			if s.sliderWindow != nil {
				s.sliderWindow.Close()
			}
			return nil
		}},
		{"overlay", func() error {
			if s.overlay != nil {
				s.overlay.Close()
			}
			return nil
		}},
		{"hotkeys", func() error {
			if s.hotkeys != nil {
				s.hotkeys.Close()
			}
			return nil
		}},
		{"control server", func() error {
			if s.server != nil {
				return s.server.Stop()
			}
			return nil
		}},
		{"state", func() error {
			if s.stateSaver != nil {
				return s.stateSaver.Close()
			}
			return nil
		}},
		{"x11", func() error {
			if s.x11Client != nil {
				s.x11Client.Close()
			}
			return nil
		}},
	}
}

// shutdown runs every step, logging failures without stopping.
func shutdown(steps []shutdownStep, logger *slog.Logger) {
	for _, step := range steps {
		if err := step.run(); err != nil {
			logger.Warn("shutdown step failed", "step", step.name, "error", err)
			continue
		}
		logger.Debug("shutdown step done", "step", step.name)
	}
}
