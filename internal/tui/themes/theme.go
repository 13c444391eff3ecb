// Package themes holds the dashboard color schemes and marker glyphs.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Italic        lipgloss.Style
	Selected      lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	RoundedBox    lipgloss.Style
	FocusedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	// Series colors products in legend order.
	Series  []lipgloss.Color
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
}

type palette struct {
	primary, onPrimary     lipgloss.Color
	text, subtext          lipgloss.Color
	border, muted          lipgloss.Color
	info, warning, success lipgloss.Color
	series                 []string
}

func newTheme(p palette) Theme {
	series := make([]lipgloss.Color, len(p.series))
	for i, c := range p.series {
		series[i] = lipgloss.Color(c)
	}
	status := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	box := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c).Padding(0, 1)
	}

	return Theme{
		Title:         lipgloss.NewStyle().Bold(true).Foreground(p.text).MarginBottom(1),
		Subtitle:      lipgloss.NewStyle().Foreground(p.subtext),
		Normal:        lipgloss.NewStyle().Foreground(p.text),
		Bold:          lipgloss.NewStyle().Bold(true).Foreground(p.text),
		Italic:        lipgloss.NewStyle().Italic(true).Foreground(p.subtext),
		Selected:      lipgloss.NewStyle().Background(p.primary).Foreground(p.onPrimary).Bold(true),
		Tab:           lipgloss.NewStyle().Foreground(p.muted).Padding(0, 2),
		ActiveTab:     lipgloss.NewStyle().Background(p.primary).Foreground(p.onPrimary).Bold(true).Padding(0, 2),
		RoundedBox:    box(p.border),
		FocusedBox:    box(p.primary),
		StatusInfo:    status(p.info),
		StatusWarning: status(p.warning),
		StatusSuccess: status(p.success),
		Series:        series,
		Primary:       p.primary,
		Muted:         p.muted,
		Border:        p.border,
	}
}

// Default is a rose-accented dark theme.
var Default = newTheme(palette{
	primary:   "#e0607e",
	onPrimary: "#fafafa",
	text:      "#fafafa",
	subtext:   "#a3a3a3",
	border:    "#404040",
	muted:     "#737373",
	info:      "#3b82f6",
	warning:   "#f59e0b",
	success:   "#10b981",
	series: []string{
		"#3b82f6", "#f97316", "#10b981", "#e11d48",
		"#a855f7", "#eab308", "#06b6d4", "#84cc16",
	},
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:   "#cba6f7",
	onPrimary: "#1e1e2e",
	text:      "#cdd6f4",
	subtext:   "#a6adc8",
	border:    "#45475a",
	muted:     "#6c7086",
	info:      "#89dceb",
	warning:   "#f9e2af",
	success:   "#a6e3a1",
	series: []string{
		"#89b4fa", "#fab387", "#a6e3a1", "#f38ba8",
		"#cba6f7", "#f9e2af", "#94e2d5", "#f5c2e7",
	},
})

// GetTheme returns a theme by name, falling back to Default.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha", "mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// SeriesColor returns the color of the i-th product in legend order.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Series) == 0 {
		return t.Primary
	}
	if i < 0 {
		i = -i
	}
	return t.Series[i%len(t.Series)]
}

// MarkerGlyphs are the chart glyphs from smallest to largest marker.
var MarkerGlyphs = []string{"·", "•", "●"}

// MarkerGlyph picks a glyph for a marker size between lo and hi.
func MarkerGlyph(size, lo, hi float64) string {
	if hi <= lo {
		return MarkerGlyphs[len(MarkerGlyphs)-1]
	}
	frac := (size - lo) / (hi - lo)
	switch {
	case frac < 1.0/3:
		return MarkerGlyphs[0]
	case frac < 2.0/3:
		return MarkerGlyphs[1]
	default:
		return MarkerGlyphs[2]
	}
}
