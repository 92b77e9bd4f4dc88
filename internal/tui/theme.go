package tui

// Theme colors are "#rrggbb" so they can be blended as well as rendered.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Accent    string
	Text      string
	Muted     string
	Warning   string
}

var (
	ThemeNeon = Theme{
		Name:      "neon",
		Primary:   "#ff00ff",
		Secondary: "#00ffff",
		Accent:    "#ffff00",
		Text:      "#ffffff",
		Muted:     "#666688",
		Warning:   "#ff8800",
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   "#00ff00",
		Secondary: "#88ff88",
		Accent:    "#ccffcc",
		Text:      "#00ff00",
		Muted:     "#005500",
		Warning:   "#ffff00",
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   "#0077be",
		Secondary: "#00a8cc",
		Accent:    "#ffd700",
		Text:      "#e0f0ff",
		Muted:     "#4488aa",
		Warning:   "#ffcc00",
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   "#ff6b6b",
		Secondary: "#feca57",
		Accent:    "#ff9ff3",
		Text:      "#fff5f5",
		Muted:     "#8b6b8c",
		Warning:   "#ffc048",
	}

	Themes = []Theme{ThemeNeon, ThemeRetro, ThemeOcean, ThemeSunset}
)

// GetTheme returns the named theme, or ThemeNeon.
func GetTheme(name string) Theme {
	return Themes[themeIndex(name)]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}
