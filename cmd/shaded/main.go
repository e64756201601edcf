// Package main is the entry point for the shaded screen dimmer daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"

	"github.com/jmylchreest/shade/internal/config"
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

const appName = "shaded"

var (
	// Build-time variables
	version = "dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	configPath := flag.String("config", "", "Config file (default ~/.config/shade/shade.toml)")
	flag.Parse()

	if *showVersion {
		fmt.Println(appName, "version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	os.Exit(run(logger, *configPath))
}

// run starts the GTK application and returns the process exit code.
func run(logger *slog.Logger, cfgPath string) int {
	logger.Info("starting shaded", "version", version)

	if cfgPath == "" {
		var err error
		cfgPath, err = config.ConfigPath()
		if err != nil {
			logger.Error("failed to get config path", "error", err)
			return 1
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "path", cfgPath, "error", err)
		return 1
	}

	app := adw.NewApplication(dbus.DaemonAppID, 0)
	sched := display.MainLoop{}

	// Shared state between the GTK main loop and the shutdown paths
	var (
		svc      services
		running  atomic.Bool
		exitCode atomic.Int32
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		exitCode.Store(1)
		app.Quit()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			sched.Post(app.Quit)
		case <-ctx.Done():
		}
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			// A second launch is forwarded here by GApplication.
			if svc.ctrl != nil {
				svc.ctrl.ShowSlider()
			}
			return
		}
		running.Store(true)

		backend := display.DetectBackend()
		logger.Info("display backend selected", "backend", backend.String())
		if backend == display.BackendX11 {
			svc.x11Client, err = x11.Connect()
			if err != nil {
				logger.Warn("failed to connect to X server, stacking hints disabled", "error", err)
				svc.x11Client = nil
			}
		}

		svc.themeLoader = theme.NewLoader(logger)
		if err := svc.themeLoader.LoadTheme(cfg.Theme.Name); err != nil {
			logger.Warn("failed to load theme, using default", "error", err)
		}
		svc.themeLoader.SetColorScheme(cfg.Theme.ColorScheme)
		svc.themeLoader.Apply(nil)

		monitor := display.MonitorFor(cfg.Overlay.Monitor, logger)

		svc.overlay = display.NewOverlay(display.OverlayOptions{
			App:       &app.Application,
			Backend:   backend,
			X11:       svc.x11Client,
			Monitor:   monitor,
			Scheduler: sched,
			Logger:    logger,
		})

		svc.sliderWindow = display.NewSliderWindow(display.SliderOptions{
			App:         &app.Application,
			Backend:     backend,
			X11:         svc.x11Client,
			Monitor:     monitor,
			Geometry:    sliderGeometry(cfg),
			Scheduler:   sched,
			Logger:      logger,
			SchemeClass: svc.themeLoader.SchemeClass,
		})
		slider := dimmer.NewSlider(svc.sliderWindow, sched, cfg.Slider.HideDelay.Duration(), logger)

		initial := cfg.Brightness.Initial
		if cfg.Brightness.Remember {
			svc.stateSaver, initial = restoreBrightness(initial, logger)
		}

		svc.ctrl = dimmer.NewController(dimmer.Options{
			Overlay:   svc.overlay,
			Slider:    slider,
			Scheduler: sched,
			Logger:    logger,
			Initial:   initial,
			Step:      cfg.Brightness.Step,
			OnQuit:    app.Quit,
		})
		svc.sliderWindow.OnDrag(svc.ctrl.Drag)
		svc.sliderWindow.OnPointer(slider.PointerEnter, slider.PointerLeave)
		if svc.stateSaver != nil {
			svc.ctrl.OnChange(svc.stateSaver.Record)
		}

		svc.ctrl.Apply()
		svc.overlay.Show()

		svc.server = dbus.NewControlServer(daemon.NewBridge(svc.ctrl, sched, daemon.DefaultBridgeTimeout), logger)
		svc.server.SetServerInfo(dbus.DefaultServerInfo(version))
		if err := svc.server.Start(); err != nil {
			if errors.Is(err, dbus.ErrAlreadyRunning) {
				fail("shaded is already running")
				return
			}
			// Dimming still works without a session bus.
			logger.Warn("remote control unavailable", "error", err)
		}
		svc.ctrl.OnChange(func(brightness float64) {
			if err := svc.server.EmitBrightnessChanged(brightness); err != nil {
				logger.Debug("failed to emit brightness signal", "error", err)
			}
		})

		svc.hotkeys = hotkey.NewListener(logger)
		if cfg.Hotkeys.Enabled {
			if backend == display.BackendLayerShell {
				logger.Info("X11 hotkeys only fire while an XWayland window has focus; " +
					"bind `shade down` and `shade up` as compositor shortcuts")
			}
			if chord, err := registerHotkeys(svc.hotkeys, cfg.Hotkeys, svc.ctrl); err != nil {
				if !errors.Is(err, hotkey.ErrUnavailable) {
					fail("failed to register hotkey", "chord", chord, "error", err)
					return
				}
				logger.Warn("global hotkeys unavailable, use `shade up` and `shade down`", "error", err)
			}
		}

		svc.notifier = daemon.NewInternalNotifier(logger)
		svc.notifier.SetEnabled(cfg.Notify.Enabled)
		if conn := svc.server.Connection(); conn != nil {
			svc.notifier.SetSender(func(n dbus.DesktopNotification) error {
				// Notify is a blocking call; keep it off the main loop.
				go func() {
					if _, err := dbus.SendNotification(conn, n); err != nil {
						logger.Debug("desktop notification failed", "error", err)
					}
				}()
				return nil
			})
		}

		if cfg.Tray.Enabled {
			svc.trayIcon = tray.New(tray.Options{
				OnShowSlider: svc.ctrl.RequestShowSlider,
				OnExit:       svc.ctrl.RequestQuit,
				Logger:       logger,
			})
			go func() {
				if err := svc.trayIcon.Run(ctx); err != nil {
					logger.Warn("tray icon unavailable", "error", err)
				}
			}()
		}

		svc.configWatcher = daemon.NewConfigWatcher(cfgPath, svc.themeLoader.ThemesDir(), logger)
		// Reload callbacks run one at a time, so live needs no lock.
		live := cfg
		svc.configWatcher.SetReloadCallback(func(next *config.Config) {
			changes := daemon.Diff(live, next)
			live = next
			if !changes.Any() {
				return
			}
			if changes.NeedsRestart() {
				logger.Info("some settings take effect after restart",
					"overlay.monitor", changes.Monitor, "tray.enabled", changes.Tray)
			}
			if changes.Notify {
				svc.notifier.SetEnabled(next.Notify.Enabled)
			}
			if changes.Hotkeys {
				svc.hotkeys.UnregisterAll()
				if next.Hotkeys.Enabled {
					if chord, err := registerHotkeys(svc.hotkeys, next.Hotkeys, svc.ctrl); err != nil {
						logger.Warn("failed to register hotkey", "chord", chord, "error", err)
						svc.notifier.NotifyHotkeyError(chord, err)
					}
				}
			}
			sched.Post(func() {
				applyConfig(changes, next, svc.ctrl, slider, svc.sliderWindow, svc.themeLoader)
			})
			svc.notifier.NotifyConfigReloaded()
		})
		svc.configWatcher.SetErrorCallback(svc.notifier.NotifyConfigError)
		svc.configWatcher.SetThemeCallback(func(name string) {
			sched.Post(func() {
				if name != svc.themeLoader.CurrentTheme() && !strings.HasPrefix(name, "_") {
					return
				}
				if err := svc.themeLoader.Reload(); err != nil {
					logger.Warn("failed to reload theme", "error", err)
					svc.notifier.NotifyThemeError(err)
				}
			})
		})
		if err := svc.configWatcher.Start(ctx, cfg); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}

		logger.Info("shaded ready",
			"brightness", svc.ctrl.Brightness(),
			"overlay_alpha", svc.overlay.Alpha(),
			"hotkeys", svc.hotkeys.Chords(),
			"dbus_name", dbus.DBusBusName,
		)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		cancel()
		shutdown(svc.shutdownSteps(), logger)
		running.Store(false)
	})

	status := app.Run(os.Args)
	signal.Stop(sigCh)

	if code := exitCode.Load(); code != 0 {
		return int(code)
	}
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("shaded stopped")
	return 0
}

// registerHotkeys binds the decrease and increase chords. On failure it
// returns the offending chord.
func registerHotkeys(l *hotkey.Listener, hk config.HotkeyConfig, ctrl *dimmer.Controller) (string, error) {
	bindings := []struct {
		spec   string
		action func()
	}{
		{hk.Decrease, ctrl.RequestDecrease},
		{hk.Increase, ctrl.RequestIncrease},
	}
	for _, b := range bindings {
		chord, err := config.ParseChord(b.spec)
		if err != nil {
			return b.spec, err
		}
		if err := l.Register(chord, b.action); err != nil {
			return chord.String(), err
		}
	}
	return "", nil
}

// restoreBrightness loads the remembered brightness and returns a saver
// that keeps it current. On failure the saver is nil and fallback is used.
func restoreBrightness(fallback float64, logger *slog.Logger) (*store.Saver, float64) {
	path, err := store.StateFilePath()
	if err != nil {
		logger.Warn("failed to get state path, brightness will not be remembered", "error", err)
		return nil, fallback
	}
	state, err := store.LoadState(path, fallback)
	if err != nil {
		logger.Warn("failed to load state", "path", path, "error", err)
		state = store.DefaultState()
		state.Brightness = fallback
	}
	logger.Debug("restored brightness", "brightness", state.Brightness, "path", path)
	return store.NewSaver(path, state, logger), state.Brightness
}

// applyConfig pushes live-reloadable settings to the UI. Main thread only.
func applyConfig(
	changes daemon.Changes,
	cfg *config.Config,
	ctrl *dimmer.Controller,
	slider *dimmer.Slider,
	sliderWindow *display.SliderWindow,
	themeLoader *theme.Loader,
) {
	if changes.Step {
		ctrl.SetStep(cfg.Brightness.Step)
	}
	if changes.HideDelay {
		slider.SetDelay(cfg.Slider.HideDelay.Duration())
	}
	if changes.Geometry {
		sliderWindow.SetGeometry(sliderGeometry(cfg))
	}
	if changes.Theme {
		if err := themeLoader.LoadTheme(cfg.Theme.Name); err != nil {
			slog.Warn("failed to load new theme", "theme", cfg.Theme.Name, "error", err)
		}
	}
	if changes.ColorScheme {
		themeLoader.SetColorScheme(cfg.Theme.ColorScheme)
		sliderWindow.SetSchemeClass(themeLoader.SchemeClass())
	}
}

func sliderGeometry(cfg *config.Config) display.SliderGeometry {
	return display.SliderGeometry{
		Width:        cfg.Slider.Width,
		Height:       cfg.Slider.Height,
		BottomMargin: cfg.Slider.BottomMargin,
		Opacity:      cfg.Slider.Opacity,
	}
}
