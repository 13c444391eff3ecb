package tui

import (
	"github.com/Veraticus/claimmap/internal/assets"
	"github.com/Veraticus/claimmap/internal/engine"
	"github.com/Veraticus/claimmap/internal/model"
	"github.com/Veraticus/claimmap/internal/tui/themes"
)

// AssetLookup finds the product-mapping reference image.
type AssetLookup interface {
	LookupCriteria(c model.FilterCriteria) (assets.Asset, error)
}

// ChartExporter writes the claim map to an image file.
type ChartExporter interface {
	Export(path string, p model.ChartProjection, title string) (string, error)
}

// Config holds TUI configuration.
type Config struct {
	Theme      themes.Theme
	Engine     *engine.Engine
	Assets     AssetLookup
	Exporter   ChartExporter
	Initial    model.FilterCriteria
	Source     string
	ExportPath string
	Width      int
	Height     int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:      themes.Default,
		Width:      100,
		Height:     32,
		ExportPath: "claim_map.png",
		Initial:    model.FilterCriteria{View: model.ViewProductMapping},
	}
}

// WithEngine sets the filter and projection engine.
func WithEngine(e *engine.Engine) Option {
	return func(c *Config) {
		c.Engine = e
	}
}

// WithAssets sets the reference image lookup.
func WithAssets(a AssetLookup) Option {
	return func(c *Config) {
		c.Assets = a
	}
}

// WithExporter sets the chart exporter and its destination.
func WithExporter(e ChartExporter, path string) Option {
	return func(c *Config) {
		c.Exporter = e
		if path != "" {
			c.ExportPath = path
		}
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithInitialCriteria preselects filters, e.g. from command-line flags.
func WithInitialCriteria(criteria model.FilterCriteria) Option {
	return func(c *Config) {
		c.Initial = criteria
	}
}

// WithSource labels the header with where the claims came from.
func WithSource(source string) Option {
	return func(c *Config) {
		c.Source = source
	}
}
