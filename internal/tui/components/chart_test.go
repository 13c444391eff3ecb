package components

import (
	"strings"
	"testing"

	"github.com/Veraticus/claimmap/internal/model"
	"github.com/Veraticus/claimmap/internal/tui/themes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProjection() model.ChartProjection {
	return model.ChartProjection{
		XCategories: []string{"science", "emotion", "heritage"},
		YCategories: []string{"statement", "imagery", "comparative/superiority"},
		Products:    []string{"P1", "P2"},
		Points: []model.ChartPoint{
			{
				Product: "P1", ColorIndex: 0, XCategory: "science", XIndex: 0,
				ClaimType: "comparative/superiority", YIndex: 2, Y: 2.1, Size: 20, Relevancy: 5,
				InTaxonomy: true, KnownType: true,
				Hover: model.HoverFields{ClaimText: "2x hydration", Touchpoint: "tv", ClaimType: "comparative/superiority"},
			},
			{
				Product: "P2", ColorIndex: 1, XCategory: "emotion", XIndex: 1,
				ClaimType: "imagery", YIndex: 1, Y: 0.85, Size: 4, Relevancy: 1,
				InTaxonomy: true, KnownType: true,
				Hover: model.HoverFields{ClaimText: "feel radiant", Touchpoint: "social", ClaimType: "imagery"},
			},
			{
				Product: "P2", ColorIndex: 1, XCategory: "heritage", XIndex: 2,
				ClaimType: "statement", YIndex: 0, Y: 0, Size: 10, Relevancy: 2,
				Hover: model.HoverFields{ClaimText: "since 1920", Touchpoint: "pack", ClaimType: "Statement"},
			},
		},
	}
}

func TestChartEmpty(t *testing.T) {
	c := NewChartModel(themes.Default)
	c.SetProjection(model.ChartProjection{})

	assert.Contains(t, c.View(), EmptyChartText)
	_, ok := c.FocusedPoint()
	assert.False(t, ok)
}

func TestChartFocusOrder(t *testing.T) {
	c := NewChartModel(themes.Default)
	c.SetProjection(sampleProjection())
	c.Focus()

	pt, ok := c.FocusedPoint()
	require.True(t, ok)
	assert.Equal(t, "science", pt.XCategory, "focus starts at the leftmost column")

	c, _ = c.Update(key("down"))
	pt, _ = c.FocusedPoint()
	assert.Equal(t, "emotion", pt.XCategory)

	c, _ = c.Update(key("up"))
	c, _ = c.Update(key("up"))
	pt, _ = c.FocusedPoint()
	assert.Equal(t, "heritage", pt.XCategory, "focus wraps around")
}

func TestChartView(t *testing.T) {
	c := NewChartModel(themes.Default)
	c.Resize(100, 20)
	c.SetProjection(sampleProjection())

	view := c.View()
	assert.Contains(t, view, "statement")
	assert.Contains(t, view, "imagery")
	assert.Contains(t, view, "science")
	assert.Contains(t, view, "heritage*", "out-of-taxonomy columns are marked")
	assert.Contains(t, view, "● P1")
	assert.Contains(t, view, "● P2")
	assert.Contains(t, view, "“2x hydration”")
	assert.Contains(t, view, "relevancy 5")

	// Three claim-type bands of three rows, the axis and the labels come first.
	lines := strings.Split(view, "\n")
	require.Greater(t, len(lines), 11)
	assert.Contains(t, lines[10], "science")
}

func TestRowFor(t *testing.T) {
	tests := []struct {
		name string
		pt   model.ChartPoint
		want int
	}{
		{name: "top band upper jitter", pt: model.ChartPoint{YIndex: 2, Y: 2.2}, want: 0},
		{name: "top band centre", pt: model.ChartPoint{YIndex: 2, Y: 2.0}, want: 1},
		{name: "top band lower jitter", pt: model.ChartPoint{YIndex: 2, Y: 1.8}, want: 2},
		{name: "bottom band centre", pt: model.ChartPoint{YIndex: 0, Y: 0.05}, want: 7},
		{name: "bottom band lower jitter", pt: model.ChartPoint{YIndex: 0, Y: -0.2}, want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rowFor(tt.pt, 3))
		})
	}
}

func TestRenderCellOverflow(t *testing.T) {
	c := NewChartModel(themes.Default)
	p := sampleProjection()
	c.SetProjection(p)

	cell := c.renderCell([]int{0, 1, 2, 0, 1}, 4, -1)
	assert.True(t, strings.Contains(cell, "+"))
	assert.Equal(t, 4, len([]rune(stripStyles(cell))))
}

func TestMarkerGlyph(t *testing.T) {
	assert.Equal(t, "·", themes.MarkerGlyph(4, 4, 20))
	assert.Equal(t, "•", themes.MarkerGlyph(12, 4, 20))
	assert.Equal(t, "●", themes.MarkerGlyph(20, 4, 20))
	assert.Equal(t, "●", themes.MarkerGlyph(7, 7, 7))
}

// stripStyles drops ANSI sequences; lipgloss emits none without a TTY but
// a developer terminal may force colors.
func stripStyles(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')):
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}
