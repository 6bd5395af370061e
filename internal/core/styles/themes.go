package styles

import (
	"image/color"
	"maps"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette is the set of semantic colors a theme provides. Column markers
// and priority badges are derived from it in SetTheme.
type Palette struct {
	Primary    color.Color // in-progress column, focus
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color // pending column, hints
	Background color.Color
	Surface    color.Color // cards, drag placeholder
	Success    color.Color // done column, low priority
	Warning    color.Color // medium priority
	Error      color.Color // blocked column, high priority
}

const DefaultTheme = "tokyo-night"

// themeHex lists each palette in Palette field order.
var themeHex = map[string][9]string{
	//              primary    secondary  fg         muted      bg         surface    success    warning    error
	"tokyo-night": {"#7aa2f7", "#7dcfff", "#c0caf5", "#565f89", "#1a1b26", "#3b4261", "#9ece6a", "#e0af68", "#f7768e"},
	"gruvbox":     {"#83a598", "#8ec07c", "#ebdbb2", "#665c54", "#282828", "#3c3836", "#b8bb26", "#fabd2f", "#fb4934"},
	"nord":        {"#88c0d0", "#81a1c1", "#eceff4", "#4c566a", "#2e3440", "#3b4252", "#a3be8c", "#ebcb8b", "#bf616a"},
	"rose-pine":   {"#c4a7e7", "#9ccfd8", "#e0def4", "#6e6a86", "#191724", "#26233a", "#31748f", "#f6c177", "#eb6f92"},
	"dracula":     {"#bd93f9", "#8be9fd", "#f8f8f2", "#6272a4", "#282a36", "#44475a", "#50fa7b", "#f1fa8c", "#ff5555"},
}

var themes = buildThemes(themeHex)

func buildThemes(src map[string][9]string) map[string]Palette {
	out := make(map[string]Palette, len(src))
	for name, h := range src {
		c := func(i int) color.Color { return lipgloss.Color(h[i]) }
		out[name] = Palette{
			Primary:    c(0),
			Secondary:  c(1),
			Foreground: c(2),
			Muted:      c(3),
			Background: c(4),
			Surface:    c(5),
			Success:    c(6),
			Warning:    c(7),
			Error:      c(8),
		}
	}
	return out
}

// ThemeNames returns the built-in theme names in sorted order.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(themes))
}

func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}
