package model

// HoverFields is the tooltip payload of a chart point.
type HoverFields struct {
	ClaimText  string
	Touchpoint string
	ClaimType  string
}

// ChartPoint is one claim placed on the claim map.
type ChartPoint struct {
	Hover      HoverFields
	XCategory  string
	ClaimType  string
	Product    string // Color key
	Y          float64
	Size       float64
	Relevancy  float64
	XIndex     int
	YIndex     int
	ColorIndex int
	InTaxonomy bool // XCategory is a member of the configured taxonomy
	KnownType  bool // ClaimType is one of the fixed claim types
}

// ChartProjection is a render-ready layout of a filtered claim subset.
type ChartProjection struct {
	XCategories []string
	YCategories []string
	Products    []string
	Points      []ChartPoint
}

// IsEmpty reports whether the projection has no points.
func (p ChartProjection) IsEmpty() bool {
	return len(p.Points) == 0
}

// PointsFor returns the points of a single product, in projection order.
func (p ChartProjection) PointsFor(product string) []ChartPoint {
	var out []ChartPoint
	for _, pt := range p.Points {
		if pt.Product == product {
			out = append(out, pt)
		}
	}
	return out
}
