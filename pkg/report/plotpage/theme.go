package plotpage

// Theme is a page color scheme.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemeConfig holds the colors of a theme.
type ThemeConfig struct {
	Background    string
	Surface       string
	Border        string
	TextPrimary   string
	TextMuted     string
	Accent        string
	ChartGrid     string
	ChartAxis     string
	ChartText     string
	ChartTextMute string
}

// Palette holds the series colors of a theme. Normal, Alert and Critical
// color scopes by severity.
type Palette struct {
	Series   []string
	Normal   string
	Alert    string
	Critical string
}

// Config returns the colors of theme. Unknown themes fall back to light.
func (t Theme) Config() ThemeConfig {
	if t == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

// Palette returns the chart palette of theme.
func (t Theme) Palette() Palette {
	if t == ThemeDark {
		return darkPalette
	}

	return lightPalette
}

var lightTheme = ThemeConfig{
	Background:    "#fafaf9",
	Surface:       "#ffffff",
	Border:        "#e7e5e4",
	TextPrimary:   "#1c1917",
	TextMuted:     "#78716c",
	Accent:        "#0369a1",
	ChartGrid:     "#e7e5e4",
	ChartAxis:     "#a8a29e",
	ChartText:     "#44403c",
	ChartTextMute: "#78716c",
}

var darkTheme = ThemeConfig{
	Background:    "#0c0a09",
	Surface:       "#1c1917",
	Border:        "#44403c",
	TextPrimary:   "#fafaf9",
	TextMuted:     "#a8a29e",
	Accent:        "#38bdf8",
	ChartGrid:     "#44403c",
	ChartAxis:     "#57534e",
	ChartText:     "#d6d3d1",
	ChartTextMute: "#a8a29e",
}

var lightPalette = Palette{
	Series:   []string{"#0369a1", "#a16207", "#7c3aed", "#0891b2"},
	Normal:   "#16a34a",
	Alert:    "#ca8a04",
	Critical: "#dc2626",
}

var darkPalette = Palette{
	Series:   []string{"#38bdf8", "#fbbf24", "#a78bfa", "#22d3ee"},
	Normal:   "#22c55e",
	Alert:    "#eab308",
	Critical: "#ef4444",
}
