package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/claimmap/internal/model"
)

// UnspecifiedLabel names a blank category on an axis.
const UnspecifiedLabel = "(unspecified)"

// Project lays records out on the claim map. The x axis is the configured
// taxonomy followed by any other categories in first-seen order; the y
// axis is the claim type index with uniform jitter. Marker area is
// proportional to relevancy relative to the largest relevancy present.
func (e *Engine) Project(records []model.ClaimRecord) model.ChartProjection {
	rng := e.config.NewRand()
	xAxis := newAxis(e.config.Taxonomy.XCategories)
	yAxis := newAxis(e.config.Taxonomy.ClaimTypes)

	var maxRelevancy float64
	productSet := make(map[string]struct{})
	for _, r := range records {
		if r.Relevancy > maxRelevancy {
			maxRelevancy = r.Relevancy
		}
		productSet[r.ProductName] = struct{}{}
	}

	products := make([]string, 0, len(productSet))
	for p := range productSet {
		products = append(products, p)
	}
	sort.Strings(products)
	colors := make(map[string]int, len(products))
	for i, p := range products {
		colors[p] = i
	}

	points := make([]model.ChartPoint, 0, len(records))
	for _, r := range records {
		xi, inTaxonomy := xAxis.place(r.XCategory)
		yi, knownType := yAxis.place(r.ClaimType)
		points = append(points, model.ChartPoint{
			Hover: model.HoverFields{
				ClaimText:  r.ClaimText,
				Touchpoint: r.Touchpoint,
				ClaimType:  r.ClaimType,
			},
			XCategory:  xAxis.labels[xi],
			ClaimType:  yAxis.labels[yi],
			Product:    r.ProductName,
			Y:          float64(yi) + (rng.Float64()*2-1)*e.config.Jitter,
			Size:       e.markerSize(r.Relevancy, maxRelevancy),
			Relevancy:  r.Relevancy,
			XIndex:     xi,
			YIndex:     yi,
			ColorIndex: colors[r.ProductName],
			InTaxonomy: inTaxonomy,
			KnownType:  knownType,
		})
	}

	return model.ChartProjection{
		XCategories: xAxis.labels,
		YCategories: yAxis.labels,
		Products:    products,
		Points:      points,
	}
}

// markerSize maps relevancy to a marker radius so that marker area grows
// linearly with relevancy.
func (e *Engine) markerSize(relevancy, maxRelevancy float64) float64 {
	if relevancy <= 0 || maxRelevancy <= 0 {
		return e.config.MinMarker
	}
	size := e.config.MaxMarker * math.Sqrt(relevancy/maxRelevancy)
	return math.Max(size, e.config.MinMarker)
}

// axis is an ordered category list that grows when an unknown value is
// placed on it.
type axis struct {
	index  map[string]int
	labels []string
	fixed  int
}

func newAxis(base []string) *axis {
	a := &axis{
		labels: make([]string, 0, len(base)),
		index:  make(map[string]int, len(base)),
	}
	for _, label := range base {
		key := model.NormalizeLabel(label)
		if _, dup := a.index[key]; dup {
			continue
		}
		a.index[key] = len(a.labels)
		a.labels = append(a.labels, label)
	}
	a.fixed = len(a.labels)
	return a
}

// place returns the position of label and whether it belongs to the
// configured base list.
func (a *axis) place(label string) (int, bool) {
	key := model.NormalizeLabel(label)
	if i, ok := a.index[key]; ok {
		return i, i < a.fixed
	}

	display := strings.TrimSpace(label)
	if display == "" {
		display = UnspecifiedLabel
	}
	a.index[key] = len(a.labels)
	a.labels = append(a.labels, display)
	return len(a.labels) - 1, false
}
