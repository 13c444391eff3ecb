package components

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/claimmap/internal/model"
	"github.com/Veraticus/claimmap/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EmptyChartText replaces the chart when no claim matches.
const EmptyChartText = "No claims match the selected filters."

const (
	rowsPerClaimType = 3   // sub-rows that resolve the y jitter
	jitterStep       = 0.2 // y offset represented by one sub-row
	maxAxisLabel     = 14
)

// ChartModel draws the competitor claim map as a strip chart: one column per
// x category, one band of rows per claim type, one colored glyph per claim.
// Up and down step the hover focus through the points.
type ChartModel struct {
	theme      themes.Theme
	projection model.ChartProjection
	order      []int
	focus      int
	minSize    float64
	maxSize    float64
	width      int
	height     int
	focused    bool
}

// NewChartModel creates an empty chart.
func NewChartModel(theme themes.Theme) ChartModel {
	return ChartModel{theme: theme, width: 80, height: 20}
}

// SetProjection replaces the plotted projection and resets the hover focus.
func (m *ChartModel) SetProjection(p model.ChartProjection) {
	m.projection = p
	m.focus = 0

	m.order = make([]int, len(p.Points))
	for i := range p.Points {
		m.order[i] = i
	}
	sort.SliceStable(m.order, func(a, b int) bool {
		pa, pb := p.Points[m.order[a]], p.Points[m.order[b]]
		if pa.XIndex != pb.XIndex {
			return pa.XIndex < pb.XIndex
		}
		if pa.YIndex != pb.YIndex {
			return pa.YIndex > pb.YIndex
		}
		return pa.Y > pb.Y
	})

	m.minSize, m.maxSize = 0, 0
	for i, pt := range p.Points {
		if i == 0 || pt.Size < m.minSize {
			m.minSize = pt.Size
		}
		if i == 0 || pt.Size > m.maxSize {
			m.maxSize = pt.Size
		}
	}
}

// Projection returns the plotted projection.
func (m ChartModel) Projection() model.ChartProjection {
	return m.projection
}

// FocusedPoint returns the point under the hover focus.
func (m ChartModel) FocusedPoint() (model.ChartPoint, bool) {
	if len(m.order) == 0 {
		return model.ChartPoint{}, false
	}
	return m.projection.Points[m.order[m.focus]], true
}

// Focus gives the chart keyboard focus.
func (m *ChartModel) Focus() {
	m.focused = true
}

// Blur removes keyboard focus.
func (m *ChartModel) Blur() {
	m.focused = false
}

// Focused reports whether the chart has keyboard focus.
func (m ChartModel) Focused() bool {
	return m.focused
}

// Resize sets the drawing area.
func (m *ChartModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Update moves the hover focus.
func (m ChartModel) Update(msg tea.Msg) (ChartModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || len(m.order) == 0 {
		return m, nil
	}

	switch keyMsg.String() {
	case "down", "j":
		m.focus = (m.focus + 1) % len(m.order)
	case "up", "k":
		m.focus = (m.focus - 1 + len(m.order)) % len(m.order)
	case "home", "g":
		m.focus = 0
	case "end", "G":
		m.focus = len(m.order) - 1
	}
	return m, nil
}

// View renders the chart, legend and hover panel.
func (m ChartModel) View() string {
	if m.projection.IsEmpty() {
		return lipgloss.NewStyle().
			Foreground(m.theme.Muted).
			Italic(true).
			Render(EmptyChartText)
	}

	sections := []string{
		m.renderGrid(),
		m.renderLegend(),
		m.renderHover(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ChartModel) renderGrid() string {
	p := m.projection
	ny := len(p.YCategories)
	nx := len(p.XCategories)

	labelW := 0
	for _, y := range p.YCategories {
		labelW = max(labelW, lipgloss.Width(y))
	}
	labelW = min(labelW, maxAxisLabel)
	colW := max(3, (m.width-labelW-2)/max(nx, 1))

	grid := make([][][]int, ny*rowsPerClaimType)
	for r := range grid {
		grid[r] = make([][]int, nx)
	}
	outside := make(map[int]bool)
	for i, pt := range p.Points {
		if pt.XIndex < 0 || pt.XIndex >= nx || pt.YIndex < 0 || pt.YIndex >= ny {
			continue
		}
		r := rowFor(pt, ny)
		grid[r][pt.XIndex] = append(grid[r][pt.XIndex], i)
		if !pt.InTaxonomy {
			outside[pt.XIndex] = true
		}
	}

	focusIdx := -1
	if m.focused && len(m.order) > 0 {
		focusIdx = m.order[m.focus]
	}

	axis := lipgloss.NewStyle().Foreground(m.theme.Border)
	var lines []string
	for r, row := range grid {
		label := ""
		if r%rowsPerClaimType == 1 {
			label = truncate(p.YCategories[ny-1-r/rowsPerClaimType], labelW)
		}
		var b strings.Builder
		b.WriteString(padRight(label, labelW))
		b.WriteString(axis.Render(" │"))
		for _, cell := range row {
			b.WriteString(m.renderCell(cell, colW, focusIdx))
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, strings.Repeat(" ", labelW)+axis.Render(" └"+strings.Repeat("─", colW*nx)))

	var labels strings.Builder
	labels.WriteString(strings.Repeat(" ", labelW+2))
	for i, x := range p.XCategories {
		if outside[i] {
			x += "*"
		}
		labels.WriteString(padRight(truncate(x, colW-1), colW))
	}
	lines = append(lines, m.theme.Subtitle.Render(labels.String()))

	return strings.Join(lines, "\n")
}

func (m ChartModel) renderCell(points []int, width, focusIdx int) string {
	capacity := width - 1
	shown := points
	overflow := false
	if len(points) > capacity {
		shown = points[:capacity-1]
		overflow = true
	}

	var b strings.Builder
	for _, i := range shown {
		pt := m.projection.Points[i]
		glyph := themes.MarkerGlyph(pt.Size, m.minSize, m.maxSize)
		if i == focusIdx {
			b.WriteString(m.theme.Selected.Render(glyph))
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.SeriesColor(pt.ColorIndex)).Render(glyph))
	}
	used := len(shown)
	if overflow {
		b.WriteString("+")
		used++
	}
	b.WriteString(strings.Repeat(" ", width-used))
	return b.String()
}

func (m ChartModel) renderLegend() string {
	items := make([]string, 0, len(m.projection.Products)+1)
	for i, product := range m.projection.Products {
		dot := lipgloss.NewStyle().Foreground(m.theme.SeriesColor(i)).Render("●")
		items = append(items, dot+" "+product)
	}
	legend := strings.Join(items, "   ")

	sizes := m.theme.Subtitle.Render(fmt.Sprintf("%s low  %s mid  %s high relevancy   * outside taxonomy",
		themes.MarkerGlyphs[0], themes.MarkerGlyphs[1], themes.MarkerGlyphs[2]))
	return lipgloss.JoinVertical(lipgloss.Left, "", legend, sizes)
}

func (m ChartModel) renderHover() string {
	pt, ok := m.FocusedPoint()
	if !ok {
		return ""
	}

	width := max(m.width-4, 20)
	dot := lipgloss.NewStyle().Foreground(m.theme.SeriesColor(pt.ColorIndex)).Render("●")
	header := fmt.Sprintf("%s %s  (%d/%d)", dot, m.theme.Bold.Render(pt.Product), m.focus+1, len(m.order))
	details := fmt.Sprintf("%s · %s · %s · relevancy %s",
		pt.XCategory, pt.Hover.ClaimType, pt.Hover.Touchpoint, formatRelevancy(pt.Relevancy))
	text := lipgloss.NewStyle().Width(width).Render("“" + pt.Hover.ClaimText + "”")

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		header,
		m.theme.Subtitle.Render(details),
		m.theme.Italic.Render(text),
	)
}

// rowFor places a point on its claim-type band, highest index on top, using
// the jitter to pick the sub-row.
func rowFor(pt model.ChartPoint, bands int) int {
	offset := int(math.Round((pt.Y - float64(pt.YIndex)) / jitterStep))
	offset = max(-1, min(1, offset))
	return (bands-1-pt.YIndex)*rowsPerClaimType + 1 - offset
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func formatRelevancy(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*100)/100)
}
