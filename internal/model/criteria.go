package model

import "fmt"

// View selects which dashboard view a set of filters applies to.
type View string

const (
	// ViewProductMapping shows the reference image for a single product.
	ViewProductMapping View = "product-mapping"
	// ViewCompetitor compares claims across several products.
	ViewCompetitor View = "competitor"
)

// ParseView converts a view name into a View.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewProductMapping, ViewCompetitor:
		return View(s), nil
	case "product", "mapping":
		return ViewProductMapping, nil
	case "compete", "competitors":
		return ViewCompetitor, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// FilterCriteria is the user's filter selection for one interaction.
// It is a value type; the With* methods return modified copies.
//
// A nil Touchpoints slice means the default selection (every touchpoint).
// A non-nil empty slice means the user deselected all of them.
type FilterCriteria struct {
	View        View
	Country     string
	Brand       string
	Products    []string
	Touchpoints []string
}

// NewProductCriteria builds criteria for the product-mapping view.
func NewProductCriteria(country, brand, product string) FilterCriteria {
	c := FilterCriteria{View: ViewProductMapping, Country: country, Brand: brand}
	if product != "" {
		c.Products = []string{product}
	}
	return c
}

// NewCompetitorCriteria builds criteria for the competitor view.
func NewCompetitorCriteria(country string, products, touchpoints []string) FilterCriteria {
	return FilterCriteria{
		View:        ViewCompetitor,
		Country:     country,
		Products:    cloneStrings(products),
		Touchpoints: cloneStrings(touchpoints),
	}
}

// Product returns the single selected product of the product-mapping view.
func (c FilterCriteria) Product() string {
	if len(c.Products) == 0 {
		return ""
	}
	return c.Products[0]
}

// DefaultTouchpoints reports whether the touchpoint filter is left at its default.
func (c FilterCriteria) DefaultTouchpoints() bool {
	return c.Touchpoints == nil
}

// WithCountry returns a copy with the country replaced.
func (c FilterCriteria) WithCountry(country string) FilterCriteria {
	out := c.clone()
	out.Country = country
	return out
}

// WithBrand returns a copy with the brand replaced.
func (c FilterCriteria) WithBrand(brand string) FilterCriteria {
	out := c.clone()
	out.Brand = brand
	return out
}

// WithProducts returns a copy with the product selection replaced.
func (c FilterCriteria) WithProducts(products ...string) FilterCriteria {
	out := c.clone()
	out.Products = cloneStrings(products)
	if out.Products == nil {
		out.Products = []string{}
	}
	return out
}

// WithTouchpoints returns a copy with the touchpoint selection replaced.
func (c FilterCriteria) WithTouchpoints(touchpoints ...string) FilterCriteria {
	out := c.clone()
	out.Touchpoints = cloneStrings(touchpoints)
	if out.Touchpoints == nil {
		out.Touchpoints = []string{}
	}
	return out
}

// WithDefaultTouchpoints returns a copy with the touchpoint filter reset.
func (c FilterCriteria) WithDefaultTouchpoints() FilterCriteria {
	out := c.clone()
	out.Touchpoints = nil
	return out
}

// WithView returns a copy for another view.
func (c FilterCriteria) WithView(v View) FilterCriteria {
	out := c.clone()
	out.View = v
	return out
}

// ImageKey is the lookup key of the product-mapping reference image.
func (c FilterCriteria) ImageKey() string {
	return fmt.Sprintf("%s_%s_%s", c.Country, c.Brand, c.Product())
}

// ChartTitle is the heading of the competitor claim map, on screen and in
// exported images.
func (c FilterCriteria) ChartTitle() string {
	return "Competitor Claim Map: " + c.Country
}

func (c FilterCriteria) clone() FilterCriteria {
	out := c
	out.Products = cloneStrings(c.Products)
	out.Touchpoints = cloneStrings(c.Touchpoints)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
