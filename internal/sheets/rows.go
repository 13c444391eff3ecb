package sheets

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/claimmap/internal/engine"
	"github.com/Veraticus/claimmap/internal/model"
)

// ReportTitle heads every published sheet.
const ReportTitle = "Claim Map"

// DetailHeader labels the per-claim rows.
var DetailHeader = []any{
	"Product",
	"X Category",
	"Claim Type",
	"Touchpoint",
	"Relevancy",
	"Marker Size",
	"Claim Text",
}

// PrepareRows lays out a result as sheet rows: the filters, summary counts
// and one row per projected claim ordered by product, then by position on
// the map.
func PrepareRows(result engine.Result, summary engine.Summary, generated time.Time) [][]any {
	c := result.Criteria
	p := result.Projection

	estimatedRows := 20 + len(summary.Products) + len(summary.Categories) + len(p.Points)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{ReportTitle, generated.Format("Jan 2, 2006 15:04 MST")},
		[]any{}, // Empty row
		[]any{"Filters"},
		[]any{"View", string(c.View)},
		[]any{"Country", c.Country},
	)
	if c.View == model.ViewProductMapping {
		values = append(values, []any{"Brand", c.Brand})
	}
	values = append(values,
		[]any{"Products", strings.Join(c.Products, ", ")},
		[]any{"Touchpoints", touchpointLabel(c)},
		[]any{}, // Empty row
		[]any{"Summary"},
		[]any{"Total Claims", summary.Total},
		[]any{"Outside Taxonomy", summary.OutOfTaxonomy},
		[]any{"Mean Relevancy", round2(summary.MeanRelevancy)},
		[]any{}, // Empty row
		[]any{"Claims by Product"},
		[]any{"Product", "Count"},
	)
	for _, count := range summary.Products {
		values = append(values, []any{count.Label, count.Count})
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{"Claims by Category"},
		[]any{"Category", "Count"},
	)
	for _, count := range summary.Categories {
		values = append(values, []any{count.Label, count.Count})
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{"Claim Details"},
		DetailHeader,
	)

	points := make([]model.ChartPoint, len(p.Points))
	copy(points, p.Points)
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].ColorIndex != points[j].ColorIndex {
			return points[i].ColorIndex < points[j].ColorIndex
		}
		if points[i].XIndex != points[j].XIndex {
			return points[i].XIndex < points[j].XIndex
		}
		return points[i].YIndex < points[j].YIndex
	})

	for _, pt := range points {
		values = append(values, []any{
			pt.Product,
			pt.XCategory,
			pt.ClaimType,
			pt.Hover.Touchpoint,
			pt.Relevancy,
			round2(pt.Size),
			pt.Hover.ClaimText,
		})
	}

	return values
}

func touchpointLabel(c model.FilterCriteria) string {
	switch {
	case c.DefaultTouchpoints():
		return "all"
	case len(c.Touchpoints) == 0:
		return "none"
	default:
		return strings.Join(c.Touchpoints, ", ")
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
