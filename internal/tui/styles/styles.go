package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/mmcdole/xyzreader/internal/domain"
)

// Color palette
var (
	Accent     = lipgloss.Color("#F4B400")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Black      = lipgloss.Color("#111111")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Header and footer
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateDark).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// List row styles
var (
	RowStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			PaddingLeft(1)

	SelectedMarkerStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true)

	// Shown in the thumbnail slot while its color is loading
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Detail styles
var (
	BodyStyle = lipgloss.NewStyle().
			Foreground(White).
			Padding(0, 2)

	PageIndicatorStyle = lipgloss.NewStyle().
				Foreground(LightGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Accent)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(Accent)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true)
)

// Tinted returns a style with c as background and a readable foreground.
func Tinted(c domain.RGB) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(ContrastForeground(c))
}

// ContrastForeground picks black or white text for background c.
func ContrastForeground(c domain.RGB) lipgloss.Color {
	cc := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	r, g, b := cc.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.179 {
		return Black
	}
	return White
}

// Swatch renders a width x height block in color c.
func Swatch(c domain.RGB, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(strings.Repeat(" ", width))
	return strings.TrimSuffix(strings.Repeat(line+"\n", height), "\n")
}

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// Pad pads a string to the given display width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}
