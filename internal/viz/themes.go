package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme shared by the CLI output and the REPL.
type Theme struct {
	Name      string
	Primary   lipgloss.Color // values
	Secondary lipgloss.Color // units
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeLab = Theme{
		Name:      "lab",
		Primary:   lipgloss.Color("#00ccff"),
		Secondary: lipgloss.Color("#00ff88"),
		Accent:    lipgloss.Color("#ff00ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeChalk = Theme{
		Name:      "chalk",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeAmber = Theme{
		Name:      "amber",
		Primary:   lipgloss.Color("#ffb000"),
		Secondary: lipgloss.Color("#ffd27f"),
		Accent:    lipgloss.Color("#ff6b6b"),
		Text:      lipgloss.Color("#fff5e0"),
		Muted:     lipgloss.Color("#8b6b3c"),
		Error:     lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{ThemeLab, ThemeChalk, ThemeAmber}
)

// GetTheme returns a theme by name, falling back to ThemeLab.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLab
}

// NextTheme cycles through Themes.
func NextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
