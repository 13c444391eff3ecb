// Package cli renders the plain-terminal output of the claimmap commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette shared with the dashboard's default theme.
var (
	RoseColor  = lipgloss.Color("#E0607E")
	TealColor  = lipgloss.Color("#4ECDC4")
	AmberColor = lipgloss.Color("#FFE66D")
	MintColor  = lipgloss.Color("#95E1D3")
	RuleColor  = lipgloss.Color("#333")
)

var (
	// TitleStyle heads a command's output.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RoseColor).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(TealColor)
	WarningStyle = lipgloss.NewStyle().Foreground(AmberColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(MintColor)

	// TableHeaderStyle underlines the header row of RenderTable.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(RuleColor)

	// TableCellStyle separates columns.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	ClaimIcon   = "💄"
	SuccessIcon = "✓"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
)

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatWarning is used for notices: missing images, unavailable export.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the claim icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(ClaimIcon + " " + title)
}

// RenderTable lays out rows under a header with padded columns. Rows shorter
// than the header are padded with empty cells; extra cells are dropped.
func RenderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	out := make([]string, 0, len(rows)+1)
	out = append(out, line(header, TableHeaderStyle))
	for _, row := range rows {
		out = append(out, line(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
