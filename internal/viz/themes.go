package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a color scheme for the terminal view.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var (
	// green on black, for terminals with few colors
	ThemeSlime = Theme{
		Name:       "slime",
		Primary:    lipgloss.Color("#7fff00"),
		Secondary:  lipgloss.Color("#32cd32"),
		Accent:     lipgloss.Color("#ccff99"),
		Background: lipgloss.Color("#031a03"),
		Text:       lipgloss.Color("#b8f5b8"),
		Muted:      lipgloss.Color("#2e6b2e"),
		Success:    lipgloss.Color("#ccff99"),
		Warning:    lipgloss.Color("#e0e040"),
		Error:      lipgloss.Color("#ff4040"),
	}

	ThemeInk = Theme{
		Name:       "ink",
		Primary:    lipgloss.Color("#e8e8e8"),
		Secondary:  lipgloss.Color("#b0b0b0"),
		Accent:     lipgloss.Color("#4a90d9"),
		Background: lipgloss.Color("#101010"),
		Text:       lipgloss.Color("#e8e8e8"),
		Muted:      lipgloss.Color("#707070"),
		Success:    lipgloss.Color("#6cc46c"),
		Warning:    lipgloss.Color("#d9a441"),
		Error:      lipgloss.Color("#d94a4a"),
	}

	ThemeDeepWater = Theme{
		Name:       "deepwater",
		Primary:    lipgloss.Color("#0077be"),
		Secondary:  lipgloss.Color("#00a8cc"),
		Accent:     lipgloss.Color("#ffd700"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
	}

	ThemeLava = Theme{
		Name:       "lava",
		Primary:    lipgloss.Color("#ff6b35"),
		Secondary:  lipgloss.Color("#ff9f1c"),
		Accent:     lipgloss.Color("#ffe66d"),
		Background: lipgloss.Color("#1a0500"),
		Text:       lipgloss.Color("#fff1e6"),
		Muted:      lipgloss.Color("#8c5a44"),
		Success:    lipgloss.Color("#ffe66d"),
		Warning:    lipgloss.Color("#ff9f1c"),
		Error:      lipgloss.Color("#e63946"),
	}

	CurrentTheme = ThemeDeepWater

	Themes = []Theme{
		ThemeDeepWater,
		ThemeLava,
		ThemeSlime,
		ThemeInk,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDeepWater
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
