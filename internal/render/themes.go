package render

import (
	"sort"

	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names shipped with glamour
const (
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StyleNoTTY      = styles.NoTTYStyle
	StyleASCII      = styles.AsciiStyle
)

// styleAliases maps the names users tend to type onto glamour's names
var styleAliases = map[string]string{
	"tokyonight": StyleTokyoNight,
	"plain":      StyleNoTTY,
}

// ResolveStyle normalizes a style name. Unknown names are returned unchanged
// and treated as a style file path by the renderer.
func ResolveStyle(name string) string {
	if alias, ok := styleAliases[name]; ok {
		return alias
	}
	return name
}

// IsBuiltinStyle reports whether style names a glamour standard style
func IsBuiltinStyle(style string) bool {
	_, ok := styles.DefaultStyles[ResolveStyle(style)]
	return ok
}

// ThemeNames returns the built-in markdown style names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(styles.DefaultStyles))
	for name := range styles.DefaultStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
