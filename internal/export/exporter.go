// Package export renders the competitor claim map as a 16:9 PNG image.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	chart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
)

const (
	// markerAlpha is the 0.7 marker opacity on a 0-255 scale.
	markerAlpha = 178
	// maxTickLabel is the longest axis label drawn in full.
	maxTickLabel = 20
	// EmptyCaption is drawn on the canvas when nothing matches.
	EmptyCaption = "No claims match the selected filters."
)

// ErrAspectRatio is returned for geometry that is not 16:9.
var ErrAspectRatio = errors.New("export geometry must be 16:9")

// Config holds export geometry. Width and Height are logical pixels; the
// written image is Scale times larger in each dimension.
type Config struct {
	Path    string
	Width   int
	Height  int
	Scale   float64
	Enabled bool
}

// DefaultConfig returns a 1280x720 export at twice the resolution.
func DefaultConfig() Config {
	return Config{
		Path:    "claim_map.png",
		Width:   1280,
		Height:  720,
		Scale:   2,
		Enabled: true,
	}
}

// Validate checks that the geometry is positive and 16:9.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("export size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("export scale must be positive, got %g", c.Scale)
	}
	if c.Width*9 != c.Height*16 {
		return fmt.Errorf("%w: got %dx%d", ErrAspectRatio, c.Width, c.Height)
	}
	return nil
}

// PixelSize returns the dimensions of the written image.
func (c Config) PixelSize() (int, int) {
	return int(float64(c.Width) * c.Scale), int(float64(c.Height) * c.Scale)
}

// Exporter writes chart projections as PNG files.
type Exporter struct {
	config Config
}

// New creates an exporter after validating its geometry.
func New(config Config) (*Exporter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Exporter{config: config}, nil
}

// Config returns the exporter configuration.
func (e *Exporter) Config() Config {
	return e.config
}

// Export renders the projection and writes it to path, or to the configured
// path when path is empty. It returns the path written. Every failure is an
// *common.ExportUnavailableError so callers can show a notice and carry on.
func (e *Exporter) Export(path string, p model.ChartProjection, title string) (string, error) {
	if !e.config.Enabled {
		return "", &common.ExportUnavailableError{Reason: "export is disabled"}
	}
	if path == "" {
		path = e.config.Path
	}

	var buf bytes.Buffer
	if err := e.Render(&buf, p, title); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", &common.ExportUnavailableError{Reason: "destination is not writable", Err: err}
	}

	w, h := e.config.PixelSize()
	common.LogInfo("Exported claim map", common.Fields{
		"path":   path,
		"points": len(p.Points),
		"width":  w,
		"height": h,
	})
	return path, nil
}

// Render writes the projection as PNG to w.
func (e *Exporter) Render(w io.Writer, p model.ChartProjection, title string) error {
	if p.IsEmpty() {
		return e.renderBlank(w, EmptyCaption)
	}

	ch := e.chart(p, title)
	if err := ch.Render(chart.PNG, w); err != nil {
		return &common.ExportUnavailableError{Reason: "chart rendering failed", Err: err}
	}
	return nil
}

func (e *Exporter) chart(p model.ChartProjection, title string) chart.Chart {
	scale := e.config.Scale
	width, height := e.config.PixelSize()

	series := make([]chart.Series, 0, len(p.Products))
	for i, product := range p.Products {
		points := p.PointsFor(product)
		xs := make([]float64, len(points))
		ys := make([]float64, len(points))
		sizes := make([]float64, len(points))
		for j, pt := range points {
			xs[j] = float64(pt.XIndex)
			ys[j] = pt.Y
			sizes[j] = pt.Size * scale
		}

		series = append(series, chart.ContinuousSeries{
			Name:    product,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    chart.GetDefaultColor(i).WithAlpha(markerAlpha),
				DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
					return sizes[index]
				},
			},
		})
	}

	ch := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		DPI:    chart.DefaultDPI * scale,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 24, Right: 24, Bottom: 24},
		},
		XAxis: chart.XAxis{
			Name:  "claim category",
			Ticks: categoryTicks(p.XCategories),
		},
		YAxis: chart.YAxis{
			Name:  "claim type",
			Ticks: categoryTicks(p.YCategories),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// categoryTicks labels integer positions and pads half a step on either
// side so markers at the ends are not clipped.
func categoryTicks(labels []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(labels)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, label := range labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: tickLabel(label)})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(labels)) - 0.5})
	return ticks
}

// tickLabel abbreviates category labels longer than maxTickLabel runes so
// neighbouring ticks stay apart: "clinical/instrumental" becomes
// "clinical/..", labels without a slash are cut.
func tickLabel(label string) string {
	if utf8.RuneCountInString(label) <= maxTickLabel {
		return label
	}
	if head, _, ok := strings.Cut(label, "/"); ok && utf8.RuneCountInString(head) < maxTickLabel {
		return head + "/.."
	}
	return string([]rune(label)[:maxTickLabel-2]) + ".."
}

// renderBlank writes an empty canvas with a centred caption.
func (e *Exporter) renderBlank(w io.Writer, caption string) error {
	width, height := e.config.PixelSize()
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: canvas, Src: image.NewUniform(color.RGBA{R: 90, G: 90, B: 90, A: 255}), Face: face}
	tw := dr.MeasureString(caption).Ceil()
	dr.Dot = fixed.Point26_6{X: fixed.I((width - tw) / 2), Y: fixed.I(height / 2)}
	dr.DrawString(caption)

	if err := png.Encode(w, canvas); err != nil {
		return &common.ExportUnavailableError{Reason: "image encoding failed", Err: err}
	}
	return nil
}
