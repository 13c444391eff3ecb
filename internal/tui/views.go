package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// filterWidth is the width of the filter column including its borders.
const filterWidth = 34

// layout returns the content width and the rows each picker may show.
func (m Model) layout() (int, int) {
	contentW := m.width - filterWidth - 3
	if m.width < 90 {
		contentW = m.width - 4
	}
	rows := max((m.height-12)/3-2, 3)
	return max(contentW, 30), rows
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.renderHeader()
	filters := m.renderFilters()

	var content string
	if m.view == ViewCompetitor {
		content = m.renderCompetitor()
	} else {
		content = m.renderMapping()
	}

	var body string
	if m.width < 90 {
		body = lipgloss.JoinVertical(lipgloss.Left, filters, content)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, filters, " ", content)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		m.renderStatusBar(),
		m.help.View(m.keymap),
	)
}

// renderHeader renders the title and the view tabs.
func (m Model) renderHeader() string {
	title := m.theme.Bold.Render("💄 Claim Map")
	if m.config.Source != "" {
		title += m.theme.Subtitle.Render("  " + m.config.Source)
	}

	tabs := make([]string, 0, 2)
	for _, v := range []View{ViewProductMapping, ViewCompetitor} {
		if v == m.view {
			tabs = append(tabs, m.theme.ActiveTab.Render(v.String()))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(v.String()))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
	)
}

// renderFilters renders the picker column of the active view.
func (m Model) renderFilters() string {
	pickers := m.mappingPickers
	if m.view == ViewCompetitor {
		pickers = m.competitorPickers
	}

	boxes := make([]string, 0, len(pickers))
	for _, p := range pickers {
		style := m.theme.RoundedBox
		if p.Focused() {
			style = m.theme.FocusedBox
		}
		boxes = append(boxes, style.Width(filterWidth-2).Render(p.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

// renderMapping renders the product-mapping view: the reference image
// location and size, or a notice when there is none.
func (m Model) renderMapping() string {
	contentW, _ := m.layout()
	box := m.theme.RoundedBox.Width(contentW - 2)

	if m.mappingErr != nil {
		return box.Render(m.theme.StatusWarning.Render(noticeFor(m.mappingErr)))
	}

	c := m.mappingCriteria
	title := m.theme.Title.Render(fmt.Sprintf("Claim Mapping: %s", c.Product()))

	var body string
	switch {
	case c.Product() == "":
		body = m.theme.Italic.Render("Select a product to see its claim mapping.")
	case !m.assetReady:
		body = m.theme.Italic.Render("Looking up image...")
	case m.assetErr != nil:
		body = m.theme.StatusWarning.Render(noticeFor(m.assetErr))
	default:
		body = strings.Join([]string{
			m.theme.Normal.Render("🖼️  " + m.asset.Path),
			m.theme.Subtitle.Render(fmt.Sprintf("%d × %d px", m.asset.Width, m.asset.Height)),
		}, "\n")
	}

	facts := m.theme.Subtitle.Render(fmt.Sprintf("%s · %s · %d claims on record",
		c.Country, c.Brand, len(m.mapping.Records)))

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, "", facts))
}

// renderCompetitor renders the competitor claim map.
func (m Model) renderCompetitor() string {
	contentW, _ := m.layout()
	style := m.theme.RoundedBox
	if m.chart.Focused() {
		style = m.theme.FocusedBox
	}
	box := style.Width(contentW - 2)

	if m.competitorErr != nil {
		return box.Render(m.theme.StatusWarning.Render(noticeFor(m.competitorErr)))
	}

	title := m.theme.Title.Render(m.competitorCriteria.ChartTitle())
	if len(m.competitorCriteria.Products) == 0 {
		return box.Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			m.theme.Italic.Render("Select one or more products to compare."),
		))
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.chart.View()))
}

// renderStatusBar shows the last action or the result summary.
func (m Model) renderStatusBar() string {
	if m.status != "" {
		switch m.statusKind {
		case statusSuccess:
			return m.theme.StatusSuccess.Render("✓ " + m.status)
		case statusWarning:
			return m.theme.StatusWarning.Render("⚠ " + m.status)
		default:
			return m.theme.StatusInfo.Render(m.status)
		}
	}

	if m.view == ViewCompetitor && m.competitorErr == nil {
		return m.theme.Subtitle.Render(m.summary.StatusLine())
	}
	return ""
}

