package engine

import (
	"strings"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
)

// Filter returns the records that satisfy every active predicate, in table
// order. Country is required. An empty product selection, or an incomplete
// brand/product pair in the product-mapping view, matches nothing.
func (e *Engine) Filter(c model.FilterCriteria) ([]model.ClaimRecord, error) {
	if strings.TrimSpace(c.Country) == "" {
		return nil, &common.InvalidCriteriaError{Field: "country"}
	}

	out := []model.ClaimRecord{}
	match := matcher(c)
	if match == nil {
		return out, nil
	}

	e.source.Each(func(r model.ClaimRecord) {
		if match(r) {
			out = append(out, r)
		}
	})
	return out, nil
}

// matcher builds the conjunction of the criteria's predicates. It returns
// nil when the criteria cannot match any record.
func matcher(c model.FilterCriteria) func(model.ClaimRecord) bool {
	var touchpoints map[string]struct{}
	if c.Touchpoints != nil {
		if len(c.Touchpoints) == 0 {
			return nil
		}
		touchpoints = toSet(c.Touchpoints)
	}

	var product func(model.ClaimRecord) bool
	if c.View == model.ViewProductMapping {
		brand, name := c.Brand, c.Product()
		if brand == "" || name == "" {
			return nil
		}
		product = func(r model.ClaimRecord) bool {
			return r.Brand == brand && r.ProductName == name
		}
	} else {
		if len(c.Products) == 0 {
			return nil
		}
		products := toSet(c.Products)
		product = func(r model.ClaimRecord) bool {
			_, ok := products[r.ProductName]
			return ok
		}
	}

	return func(r model.ClaimRecord) bool {
		if r.Country != c.Country || !product(r) {
			return false
		}
		if touchpoints != nil {
			if _, ok := touchpoints[r.Touchpoint]; !ok {
				return false
			}
		}
		return true
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
