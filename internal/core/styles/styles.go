// Package styles provides shared lipgloss v2 styles for the board's CLI and
// TUI surfaces.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Semantic colors of the active theme.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style

	// Board styles.
	TitleStyle         lipgloss.Style
	ColumnStyle        lipgloss.Style
	ColumnActiveStyle  lipgloss.Style
	ColumnHeaderStyle  lipgloss.Style
	ColumnCountStyle   lipgloss.Style
	CardStyle          lipgloss.Style
	CardFocusedStyle   lipgloss.Style
	CardDraggingStyle  lipgloss.Style
	CardTitleStyle     lipgloss.Style
	CardDescStyle      lipgloss.Style
	CardAssigneeStyle  lipgloss.Style
	PlaceholderStyle   lipgloss.Style
	NotificationStyle  lipgloss.Style
	HelpBarStyle       lipgloss.Style
	ModalStyle         lipgloss.Style
	ModalTitleStyle    lipgloss.Style
	FormFieldStyle     lipgloss.Style
	FormFocusedStyle   lipgloss.Style
	FormHelpStyle      lipgloss.Style
	PriorityBadgeStyle map[string]lipgloss.Style

	// Toasts and help.
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
	HelpKeyStyle      lipgloss.Style
	HelpDescStyle     lipgloss.Style
	HelpSectionStyle  lipgloss.Style
)

// column marker colors keyed by column marker.
var markerColors map[string]color.Color

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	markerColors = map[string]color.Color{
		"pending":    p.Muted,
		"inprogress": p.Primary,
		"blocked":    p.Error,
		"done":       p.Success,
	}

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		PaddingLeft(1)
	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	ColumnActiveStyle = ColumnStyle.
		BorderForeground(ColorPrimary)
	ColumnHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	ColumnCountStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorSurface).
		PaddingLeft(1)
	CardFocusedStyle = CardStyle.
		BorderForeground(ColorPrimary)
	CardDraggingStyle = CardStyle.
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorWarning).
		Faint(true)
	CardTitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	CardDescStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	CardAssigneeStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	PlaceholderStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)

	NotificationStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		PaddingLeft(1)
	HelpBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		PaddingLeft(1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	FormFocusedStyle = FormFieldStyle.
		BorderForeground(ColorPrimary)
	FormHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastInfoStyle = toast.
		BorderForeground(ColorPrimary).
		Foreground(ColorForeground)
	ToastWarningStyle = toast.
		BorderForeground(ColorWarning).
		Foreground(ColorWarning)
	ToastErrorStyle = toast.
		BorderForeground(ColorError).
		Foreground(ColorError)

	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	HelpDescStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	HelpSectionStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	PriorityBadgeStyle = map[string]lipgloss.Style{
		"low":    badge(p.Success, p.Background),
		"medium": badge(p.Warning, p.Background),
		"high":   badge(p.Error, p.Background),
	}
}

// badge blends the accent into the background so badges read as tinted pills.
func badge(accent, bg color.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(accent).
		Background(Blend(bg, accent, 0.2)).
		Padding(0, 1)
}

// Blend mixes a toward b by t in Lab space. Colors that cannot be converted
// fall back to a.
func Blend(a, b color.Color, t float64) color.Color {
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return a
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return a
	}
	return ca.BlendLab(cb, t).Clamped()
}

// MarkerColor returns the color of a column marker, muted for unknown markers.
func MarkerColor(marker string) color.Color {
	if c, ok := markerColors[marker]; ok {
		return c
	}
	return ColorMuted
}

// PriorityStyle returns the badge style for a priority, or a muted style for
// values outside the cycle.
func PriorityStyle(priority string) lipgloss.Style {
	if s, ok := PriorityBadgeStyle[priority]; ok {
		return s
	}
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg
	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H2.Color = primary
	cfg.H3.Color = secondary
	cfg.Code.Color = secondary
	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	return cfg
}
