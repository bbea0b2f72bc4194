package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the chat interface
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Primary colors the assistant, Secondary the user
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	// TokyoNightTheme is the default dark theme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// GymTheme mirrors the blue-to-purple gradient of the web chat
	GymTheme = TUITheme{
		Name:        "gym",
		Description: "Gym - blue and purple like the web chat",

		Background: lipgloss.Color("#0f172a"),
		Surface:    lipgloss.Color("#1e293b"),
		Border:     lipgloss.Color("#334155"),

		Primary:   lipgloss.Color("#3b82f6"),
		Secondary: lipgloss.Color("#a855f7"),
		Accent:    lipgloss.Color("#22c55e"),
		Warning:   lipgloss.Color("#f59e0b"),
		Error:     lipgloss.Color("#ef4444"),

		Text:     lipgloss.Color("#f1f5f9"),
		TextDim:  lipgloss.Color("#94a3b8"),
		TextMute: lipgloss.Color("#475569"),
	}

	// NordTheme is based on the Nord palette
	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - arctic cool tones",

		Background: lipgloss.Color("#2e3440"),
		Surface:    lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),

		Primary:   lipgloss.Color("#88c0d0"),
		Secondary: lipgloss.Color("#a3be8c"),
		Accent:    lipgloss.Color("#b48ead"),
		Warning:   lipgloss.Color("#ebcb8b"),
		Error:     lipgloss.Color("#bf616a"),

		Text:     lipgloss.Color("#eceff4"),
		TextDim:  lipgloss.Color("#7b88a1"),
		TextMute: lipgloss.Color("#4c566a"),
	}

	// DraculaTheme is based on the Dracula palette
	DraculaTheme = TUITheme{
		Name:        "dracula",
		Description: "Dracula - dark with vibrant colors",

		Background: lipgloss.Color("#282a36"),
		Surface:    lipgloss.Color("#44475a"),
		Border:     lipgloss.Color("#6272a4"),

		Primary:   lipgloss.Color("#8be9fd"),
		Secondary: lipgloss.Color("#50fa7b"),
		Accent:    lipgloss.Color("#ff79c6"),
		Warning:   lipgloss.Color("#f1fa8c"),
		Error:     lipgloss.Color("#ff5555"),

		Text:     lipgloss.Color("#f8f8f2"),
		TextDim:  lipgloss.Color("#6272a4"),
		TextMute: lipgloss.Color("#44475a"),
	}
)

var (
	tuiThemeMu      sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// AvailableTUIThemes returns all built-in TUI themes, default first
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{TokyoNightTheme, GymTheme, NordTheme, DraculaTheme}
}

// TUIThemeNames returns the theme names in AvailableTUIThemes order
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// GetTUIThemeByName looks a theme up, ignoring case and surrounding spaces
func GetTUIThemeByName(name string) (TUITheme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// GetTUITheme returns the active TUI theme
func GetTUITheme() TUITheme {
	tuiThemeMu.RLock()
	defer tuiThemeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates a theme by name. Unknown names leave the active
// theme unchanged and return false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	tuiThemeMu.Lock()
	currentTUITheme = theme
	tuiThemeMu.Unlock()
	return true
}
