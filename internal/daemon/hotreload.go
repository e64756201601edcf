package daemon

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/shade/internal/config"
)

// DefaultDebounce coalesces the burst of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

type changeKind int

const (
	changeNone changeKind = iota
	changeConfig
	changeTheme
)

// ConfigWatcher watches the config file and the themes directory and
// reports validated changes. Callbacks run on timer goroutines, one at a
// time and never concurrently.
type ConfigWatcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	// handling serializes reloads so callbacks never overlap.
	handling sync.Mutex

	configPath string
	themesDir  string
	debounce   time.Duration

	current *config.Config

	onReload func(newConfig *config.Config)
	onError  func(err error)
	onTheme  func(name string)

	watcher *fsnotify.Watcher
	timers  map[string]*time.Timer
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewConfigWatcher creates a watcher for configPath and themesDir. An empty
// themesDir disables theme watching.
func NewConfigWatcher(configPath, themesDir string, logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigWatcher{
		logger:     logger,
		configPath: filepath.Clean(configPath),
		themesDir:  cleanOrEmpty(themesDir),
		debounce:   DefaultDebounce,
		timers:     make(map[string]*time.Timer),
	}
}

// SetDebounce sets the quiet period before a change is handled.
func (w *ConfigWatcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// SetReloadCallback sets the callback for a successfully reloaded config.
func (w *ConfigWatcher) SetReloadCallback(callback func(newConfig *config.Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// SetErrorCallback sets the callback for a config that failed to load or
// validate. The previous config stays in effect.
func (w *ConfigWatcher) SetErrorCallback(callback func(err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// SetThemeCallback sets the callback for a changed theme file. name is the
// theme name, or a partial's file name when a shared partial changed.
func (w *ConfigWatcher) SetThemeCallback(callback func(name string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onTheme = callback
}

// Start creates the config directory if needed and begins watching.
func (w *ConfigWatcher) Start(ctx context.Context, initial *config.Config) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	configDir := filepath.Dir(w.configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory rather than the file: editors replace files on
	// save, which drops a watch on the file itself.
	if err := watcher.Add(configDir); err != nil {
		_ = watcher.Close()
		return err
	}
	if w.themesDir != "" {
		if err := watcher.Add(w.themesDir); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.logger.Debug("not watching themes directory", "path", w.themesDir, "error", err)
		}
	}

	w.watcher = watcher
	w.current = initial
	w.done = make(chan struct{})
	w.running = true

	w.wg.Add(1)
	go w.watchLoop(ctx, watcher, w.done)

	w.logger.Debug("config watcher started", "path", w.configPath, "themes", w.themesDir)
	return nil
}

// Stop stops watching and cancels pending reloads. Safe to call more than
// once.
func (w *ConfigWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.done)
	for key, t := range w.timers {
		t.Stop()
		delete(w.timers, key)
	}
	watcher := w.watcher
	w.mu.Unlock()

	_ = watcher.Close()
	w.wg.Wait()
	w.logger.Debug("config watcher stopped")
}

// Current returns the last valid configuration.
func (w *ConfigWatcher) Current() *config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *ConfigWatcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (w *ConfigWatcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	// A themes directory created after startup.
	if event.Has(fsnotify.Create) && w.themesDir != "" && filepath.Clean(event.Name) == w.themesDir {
		if err := watcher.Add(w.themesDir); err != nil {
			w.logger.Warn("failed to watch themes directory", "path", w.themesDir, "error", err)
		}
		return
	}

	kind, name := classify(event.Name, w.configPath, w.themesDir)
	if kind == changeNone {
		return
	}
	w.schedule(event.Name, func() {
		switch kind {
		case changeConfig:
			w.reloadConfig()
		case changeTheme:
			w.reloadTheme(name)
		}
	})
}

// schedule runs fn after the debounce period, restarting the period if
// key changes again first.
func (w *ConfigWatcher) schedule(key string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if t, ok := w.timers[key]; ok {
		t.Stop()
	}
	w.timers[key] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, key)
		running := w.running
		w.mu.Unlock()
		if !running {
			return
		}
		w.handling.Lock()
		defer w.handling.Unlock()
		fn()
	})
}

func (w *ConfigWatcher) reloadConfig() {
	w.mu.RLock()
	reloadCallback := w.onReload
	errorCallback := w.onError
	w.mu.RUnlock()

	w.logger.Debug("config file changed", "path", w.configPath)

	newConfig, err := config.Load(w.configPath)
	if err != nil {
		w.logger.Warn("config file changed but validation failed", "error", err)
		if errorCallback != nil {
			errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.current = newConfig
	w.mu.Unlock()

	w.logger.Info("config reloaded successfully")
	if reloadCallback != nil {
		reloadCallback(newConfig)
	}
}

func (w *ConfigWatcher) reloadTheme(name string) {
	w.mu.RLock()
	callback := w.onTheme
	w.mu.RUnlock()

	w.logger.Debug("theme file changed", "name", name)
	if callback != nil {
		callback(name)
	}
}

// classify maps a changed path to what needs reloading.
func classify(path, configPath, themesDir string) (changeKind, string) {
	path = filepath.Clean(path)
	if path == configPath {
		return changeConfig, ""
	}
	if themesDir == "" || filepath.Dir(path) != themesDir {
		return changeNone, ""
	}
	base := filepath.Base(path)
	if filepath.Ext(base) != ".css" {
		return changeNone, ""
	}
	if strings.HasPrefix(base, "_") {
		return changeTheme, base
	}
	return changeTheme, strings.TrimSuffix(base, ".css")
}

func cleanOrEmpty(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}
