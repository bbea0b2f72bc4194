package render

import "testing"

func TestTUIThemes_Complete(t *testing.T) {
	for _, theme := range AvailableTUIThemes() {
		t.Run(theme.Name, func(t *testing.T) {
			colors := map[string]string{
				"background": string(theme.Background),
				"surface":    string(theme.Surface),
				"border":     string(theme.Border),
				"primary":    string(theme.Primary),
				"secondary":  string(theme.Secondary),
				"accent":     string(theme.Accent),
				"warning":    string(theme.Warning),
				"error":      string(theme.Error),
				"text":       string(theme.Text),
				"textDim":    string(theme.TextDim),
				"textMute":   string(theme.TextMute),
			}
			for field, c := range colors {
				if c == "" {
					t.Errorf("%s color is empty", field)
				}
			}
			if theme.Description == "" {
				t.Error("description is empty")
			}
		})
	}
}

func TestGetTUIThemeByName(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"tokyonight", "tokyonight", true},
		{"GYM", "gym", true},
		{"  nord ", "nord", true},
		{"dracula", "dracula", true},
		{"solarized", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			theme, ok := GetTUIThemeByName(tt.input)
			if ok != tt.ok || theme.Name != tt.want {
				t.Errorf("GetTUIThemeByName(%q) = %q, %v", tt.input, theme.Name, ok)
			}
		})
	}
}

func TestSetTUITheme(t *testing.T) {
	defer SetTUITheme(TokyoNightTheme.Name)

	if !SetTUITheme("gym") {
		t.Fatal("SetTUITheme(gym) = false")
	}
	if GetTUITheme().Name != "gym" {
		t.Errorf("active theme = %q", GetTUITheme().Name)
	}

	if SetTUITheme("unknown") {
		t.Error("SetTUITheme(unknown) = true")
	}
	if GetTUITheme().Name != "gym" {
		t.Error("unknown theme changed the active theme")
	}

	names := TUIThemeNames()
	if len(names) != len(AvailableTUIThemes()) || names[0] != TokyoNightTheme.Name {
		t.Errorf("TUIThemeNames() = %v", names)
	}
}
