package theme

import (
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/shade/internal/config"
)

// Loader owns the application-wide CSS provider. LoadTheme and Reload must
// run on the GTK main thread.
type Loader struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	provider    *gtk.CSSProvider
	themesDir   string
	colorScheme string
	theme       *Theme
	applied     bool
}

// NewLoader creates a theme loader reading user themes from the default
// themes directory.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	return &Loader{
		logger:    logger,
		provider:  gtk.NewCSSProvider(),
		themesDir: themesDir,
	}
}

// ThemesDir returns the directory user themes are read from.
func (l *Loader) ThemesDir() string {
	return l.themesDir
}

// LoadTheme resolves name and loads it into the provider. Unknown names
// fall back to the default theme.
func (l *Loader) LoadTheme(name string) error {
	theme, found, err := Resolve(name, l.themesDir)
	if err != nil {
		l.logger.Warn("failed to load user theme, using bundled", "theme", name, "error", err)
	}
	if !found {
		l.logger.Warn("theme not found, using default", "theme", name)
	}

	l.mu.Lock()
	l.theme = theme
	l.mu.Unlock()

	l.provider.LoadFromString(theme.CSS)
	if theme.Bundled {
		l.logger.Info("loaded bundled theme", "name", theme.Name)
	} else {
		l.logger.Info("loaded user theme", "name", theme.Name, "path", theme.Path)
	}
	return nil
}

// Reload re-reads the current theme, picking up edits to user files.
func (l *Loader) Reload() error {
	return l.LoadTheme(l.CurrentTheme())
}

// Apply attaches the provider to display. Safe to call more than once.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.applied {
		return
	}
	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
	l.applied = true
	l.logger.Debug("applied theme to display", "name", l.nameLocked())
}

// SetColorScheme records the configured scheme ("system", "light" or
// "dark") and pushes it to libadwaita.
func (l *Loader) SetColorScheme(scheme string) {
	l.mu.Lock()
	l.colorScheme = scheme
	l.mu.Unlock()

	sm := adw.StyleManagerGetDefault()
	switch config.ColorScheme(scheme) {
	case config.ColorSchemeLight:
		sm.SetColorScheme(adw.ColorSchemeForceLight)
	case config.ColorSchemeDark:
		sm.SetColorScheme(adw.ColorSchemeForceDark)
	default:
		sm.SetColorScheme(adw.ColorSchemeDefault)
	}
}

// SchemeClass returns the CSS class for the active color scheme.
func (l *Loader) SchemeClass() string {
	l.mu.RLock()
	scheme := l.colorScheme
	l.mu.RUnlock()
	return ColorSchemeClass(scheme, adw.StyleManagerGetDefault().Dark())
}

// CurrentTheme returns the name of the loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nameLocked()
}

func (l *Loader) nameLocked() string {
	if l.theme == nil {
		return DefaultThemeName
	}
	return l.theme.Name
}
