package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jmylchreest/shade/internal/config"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// CSS classes the display package puts on its widgets.
const (
	ClassOverlay      = "shade-overlay"
	ClassSliderWindow = "shade-slider-window"
	ClassSlider       = "shade-slider"
	ClassSliderLabel  = "shade-slider-label"
)

// Theme is a resolved stylesheet.
type Theme struct {
	Name    string // Theme name (without .css extension)
	Path    string // File the CSS was read from; empty when bundled
	CSS     string // CSS with imports inlined
	Bundled bool
}

// ThemesDir returns the user's themes directory.
func ThemesDir() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "themes"), nil
}

// Resolve finds a theme by name. A file <themesDir>/<name>.css wins over a
// bundled theme of the same name; an unknown name falls back to the default
// theme and reports found=false.
func Resolve(name, themesDir string) (theme *Theme, found bool, err error) {
	if name == "" {
		name = DefaultThemeName
	}

	if themesDir != "" {
		path := filepath.Join(themesDir, name+".css")
		if _, statErr := os.Stat(path); statErr == nil {
			t, loadErr := loadFile(name, path)
			if loadErr == nil {
				return t, true, nil
			}
			// Broken user file; fall through to the bundled copy.
			err = loadErr
		}
	}

	if css, ok := GetEmbeddedTheme(name); ok {
		return &Theme{
			Name:    name,
			CSS:     ProcessImports(css, "", nil),
			Bundled: true,
		}, true, err
	}

	return NewDefaultTheme(), false, err
}

func loadFile(name, path string) (*Theme, error) {
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme %s: %w", path, err)
	}
	return &Theme{
		Name: name,
		Path: path,
		CSS:  ProcessImports(string(css), filepath.Dir(path), nil),
	}, nil
}

// NewDefaultTheme returns the bundled default theme with imports inlined.
func NewDefaultTheme() *Theme {
	css, _ := GetEmbeddedTheme(DefaultThemeName)
	return &Theme{
		Name:    DefaultThemeName,
		CSS:     ProcessImports(css, "", nil),
		Bundled: true,
	}
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, then against bundled partials
// and themes. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		imported, err := os.ReadFile(fullPath)
		if err != nil || baseDir == "" {
			return embeddedImport(importPath, err)
		}

		return "/* imported: " + importPath + " */\n" +
			ProcessImports(string(imported), filepath.Dir(fullPath), seen)
	})
}

func embeddedImport(importPath string, readErr error) string {
	base := filepath.Base(importPath)
	if strings.HasPrefix(base, "_") {
		if css, ok := GetEmbeddedPartial(base); ok {
			return "/* imported (embedded): " + importPath + " */\n" + css
		}
	}
	if css, ok := GetEmbeddedTheme(strings.TrimSuffix(base, ".css")); ok {
		return "/* imported (embedded): " + importPath + " */\n" + css
	}
	if readErr == nil {
		readErr = os.ErrNotExist
	}
	return "/* import failed: " + importPath + " - " + readErr.Error() + " */"
}

// ColorSchemeClass maps the configured scheme to the "light" or "dark" CSS
// class. systemDark is consulted for the "system" scheme.
func ColorSchemeClass(scheme string, systemDark bool) string {
	switch config.ColorScheme(scheme) {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		if systemDark {
			return "dark"
		}
		return "light"
	}
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool
}

// ListAvailableThemes lists bundled themes followed by user themes in
// themesDir. A user file that shadows a bundled theme is reported once,
// with its path.
func ListAvailableThemes(themesDir string) ([]ThemeInfo, error) {
	index := make(map[string]int)
	var themes []ThemeInfo

	for _, name := range ListEmbeddedThemes() {
		index[name] = len(themes)
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	if themesDir == "" {
		return themes, nil
	}
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || filepath.Ext(fileName) != ".css" || strings.HasPrefix(fileName, "_") {
			continue
		}
		name := strings.TrimSuffix(fileName, ".css")
		path := filepath.Join(themesDir, fileName)
		if i, ok := index[name]; ok {
			themes[i].Path = path
			continue
		}
		index[name] = len(themes)
		themes = append(themes, ThemeInfo{Name: name, Path: path})
	}
	return themes, nil
}
