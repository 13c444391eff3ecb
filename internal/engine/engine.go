// Package engine filters the claim table and projects the result onto the
// two categorical axes of the claim map.
package engine

import (
	"math/rand/v2"
	"slices"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
)

// Engine is a stateless filter and projection pipeline over a ClaimSource.
// Every call derives its output from the criteria it is given.
type Engine struct {
	source ClaimSource
	config Config
}

// Config holds configuration options for the engine.
type Config struct {
	// NewRand returns the jitter source for one Project call.
	NewRand   func() RandSource
	Taxonomy  model.Taxonomy
	MinMarker float64
	MaxMarker float64
	Jitter    float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Taxonomy:  model.DefaultTaxonomy(),
		MinMarker: 4,
		MaxMarker: 20,
		Jitter:    0.2,
		NewRand:   runtimeRand,
	}
}

// New creates an engine with the default configuration.
func New(source ClaimSource) *Engine {
	return NewWithConfig(source, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration. Zero values
// fall back to the defaults.
func NewWithConfig(source ClaimSource, config Config) *Engine {
	defaults := DefaultConfig()
	if len(config.Taxonomy.XCategories) == 0 {
		config.Taxonomy.XCategories = defaults.Taxonomy.XCategories
	}
	if len(config.Taxonomy.ClaimTypes) == 0 {
		config.Taxonomy.ClaimTypes = defaults.Taxonomy.ClaimTypes
	}
	if config.MaxMarker <= 0 {
		config.MaxMarker = defaults.MaxMarker
	}
	if config.MinMarker <= 0 || config.MinMarker > config.MaxMarker {
		config.MinMarker = min(defaults.MinMarker, config.MaxMarker)
	}
	if config.Jitter <= 0 {
		config.Jitter = defaults.Jitter
	}
	if config.NewRand == nil {
		config.NewRand = defaults.NewRand
	}
	return &Engine{source: source, config: config}
}

// Taxonomy returns the axis configuration in use.
func (e *Engine) Taxonomy() model.Taxonomy {
	return e.config.Taxonomy
}

// runtimeRand is deliberately seeded from the runtime so that repeated
// renders of the same criteria spread overlapping points differently.
func runtimeRand() RandSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// FilterOptions are the values each filter control may offer.
type FilterOptions struct {
	Countries   []string
	Brands      []string
	Products    []string
	Touchpoints []string
}

// Options returns the cascading choices for the given criteria. Brands are
// scoped to the country; products to country and brand in the
// product-mapping view and to the country alone in the competitor view.
// Touchpoints always come from the unfiltered table.
func (e *Engine) Options(c model.FilterCriteria) FilterOptions {
	opts := FilterOptions{
		Countries:   e.source.DistinctValues(model.FieldCountry),
		Touchpoints: e.source.DistinctValues(model.FieldTouchpoint),
		Brands: e.source.DistinctValuesWhere(model.FieldBrand, func(r model.ClaimRecord) bool {
			return r.Country == c.Country
		}),
	}

	if c.View == model.ViewProductMapping {
		opts.Products = e.source.DistinctValuesWhere(model.FieldProductName, func(r model.ClaimRecord) bool {
			return r.Country == c.Country && r.Brand == c.Brand
		})
	} else {
		opts.Products = e.source.DistinctValuesWhere(model.FieldProductName, func(r model.ClaimRecord) bool {
			return r.Country == c.Country
		})
	}
	return opts
}

// Reconcile drops selections that the current options no longer offer,
// such as a brand that does not exist in a newly chosen country. The
// touchpoint default (nil) is preserved.
func (e *Engine) Reconcile(c model.FilterCriteria) model.FilterCriteria {
	out := c
	if out.View == model.ViewProductMapping && out.Brand != "" {
		if !slices.Contains(e.Options(out).Brands, out.Brand) {
			common.LogDebug("Dropping brand not offered for country", common.Fields{
				"brand":   out.Brand,
				"country": out.Country,
			})
			out = out.WithBrand("")
		}
	}

	opts := e.Options(out)
	if out.Products != nil {
		out = out.WithProducts(intersect(out.Products, opts.Products)...)
	}
	if out.Touchpoints != nil {
		out = out.WithTouchpoints(intersect(out.Touchpoints, opts.Touchpoints)...)
	}
	return out
}

// Result is the output of one Run.
type Result struct {
	Criteria   model.FilterCriteria
	Records    []model.ClaimRecord
	Projection model.ChartProjection
}

// IsEmpty reports whether no record matched.
func (r Result) IsEmpty() bool {
	return len(r.Records) == 0
}

// Run filters the table and projects the matching records. An empty match
// is a valid result, not an error.
func (e *Engine) Run(c model.FilterCriteria) (Result, error) {
	records, err := e.Filter(c)
	if err != nil {
		return Result{Criteria: c}, err
	}

	result := Result{
		Criteria:   c,
		Records:    records,
		Projection: e.Project(records),
	}

	common.LogDebug("Ran claim filter", common.Fields{
		"view":     string(c.View),
		"country":  c.Country,
		"products": len(c.Products),
		"records":  len(records),
	})
	return result, nil
}

func intersect(selected, offered []string) []string {
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		if slices.Contains(offered, s) {
			out = append(out, s)
		}
	}
	return out
}
