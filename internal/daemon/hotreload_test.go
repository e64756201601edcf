package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/shade/internal/config"
)

func TestClassify(t *testing.T) {
	configPath := "/home/u/.config/shade/shade.toml"
	themesDir := "/home/u/.config/shade/themes"

	tests := []struct {
		path string
		kind changeKind
		name string
	}{
		{configPath, changeConfig, ""},
		{"/home/u/.config/shade/shade.toml.tmp", changeNone, ""},
		{"/home/u/.config/shade/themes/midnight.css", changeTheme, "midnight"},
		{"/home/u/.config/shade/themes/_base.css", changeTheme, "_base.css"},
		{"/home/u/.config/shade/themes/notes.txt", changeNone, ""},
		{"/home/u/.config/shade/themes/sub/deep.css", changeNone, ""},
		{"/tmp/other.css", changeNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, name := classify(tt.path, configPath, themesDir)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestClassify_NoThemesDir(t *testing.T) {
	kind, _ := classify("/x/themes/a.css", "/x/shade.toml", "")
	assert.Equal(t, changeNone, kind)
}

type reloadRecorder struct {
	mu      sync.Mutex
	configs []*config.Config
	errs    []error
	themes  []string
}

func (r *reloadRecorder) reloads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.configs)
}

func (r *reloadRecorder) errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func (r *reloadRecorder) themeNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.themes...)
}

func startWatcher(t *testing.T) (*ConfigWatcher, *reloadRecorder, string, string) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, config.ConfigFileName)
	themesDir := filepath.Join(dir, "themes")
	require.NoError(t, os.MkdirAll(themesDir, 0o755))

	rec := &reloadRecorder{}
	w := NewConfigWatcher(configPath, themesDir, nil)
	w.SetDebounce(20 * time.Millisecond)
	w.SetReloadCallback(func(c *config.Config) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.configs = append(rec.configs, c)
	})
	w.SetErrorCallback(func(err error) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.errs = append(rec.errs, err)
	})
	w.SetThemeCallback(func(name string) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.themes = append(rec.themes, name)
	})

	require.NoError(t, w.Start(context.Background(), config.Default()))
	t.Cleanup(w.Stop)
	return w, rec, configPath, themesDir
}

func TestConfigWatcher_ReloadsValidConfig(t *testing.T) {
	w, rec, configPath, _ := startWatcher(t)

	require.NoError(t, os.WriteFile(configPath, []byte("[brightness]\nstep = 10.0\n"), 0o600))

	assert.Eventually(t, func() bool { return rec.reloads() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 10.0, w.Current().Brightness.Step)
	assert.Zero(t, rec.errors())
}

func TestConfigWatcher_RejectsInvalidConfig(t *testing.T) {
	w, rec, configPath, _ := startWatcher(t)

	require.NoError(t, os.WriteFile(configPath, []byte("[brightness]\nstep = 500.0\n"), 0o600))

	assert.Eventually(t, func() bool { return rec.errors() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, rec.reloads())
	assert.Equal(t, config.Default().Brightness.Step, w.Current().Brightness.Step)
}

func TestConfigWatcher_ThemeChange(t *testing.T) {
	_, rec, _, themesDir := startWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(themesDir, "midnight.css"), []byte(".x {}"), 0o600))

	assert.Eventually(t, func() bool {
		for _, name := range rec.themeNames() {
			if name == "midnight" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConfigWatcher_CallbacksDoNotOverlap(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, config.ConfigFileName)
	themesDir := filepath.Join(dir, "themes")
	require.NoError(t, os.MkdirAll(themesDir, 0o755))

	var inFlight, maxInFlight, calls atomic.Int32
	track := func() {
		n := inFlight.Add(1)
		for {
			prev := maxInFlight.Load()
			if n <= prev || maxInFlight.CompareAndSwap(prev, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
		calls.Add(1)
	}

	w := NewConfigWatcher(configPath, themesDir, nil)
	w.SetDebounce(20 * time.Millisecond)
	w.SetReloadCallback(func(*config.Config) { track() })
	w.SetThemeCallback(func(string) { track() })
	require.NoError(t, w.Start(context.Background(), config.Default()))
	t.Cleanup(w.Stop)

	require.NoError(t, os.WriteFile(configPath, []byte("[brightness]\nstep = 7.0\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(themesDir, "a.css"), []byte(".a {}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(themesDir, "b.css"), []byte(".b {}"), 0o600))

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestConfigWatcher_StopIsIdempotent(t *testing.T) {
	w := NewConfigWatcher(filepath.Join(t.TempDir(), config.ConfigFileName), "", nil)
	require.NoError(t, w.Start(context.Background(), config.Default()))
	w.Stop()
	assert.NotPanics(t, w.Stop)
}
