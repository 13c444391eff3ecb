package model

import "strings"

// DefaultXCategories is the reference x-axis order of the claim map.
var DefaultXCategories = []string{
	"science",
	"formulation",
	"ingredient",
	"packaging",
	"emotion",
	"sensory",
	"consumer perception",
	"clinical/instrumental",
	"local relevance/safety/sustainability",
	"shares/sales/R&R/endorsement",
}

// Claim type labels. Their position in ClaimTypes is the y-axis index.
const (
	ClaimTypeStatement   = "statement"
	ClaimTypeImagery     = "imagery"
	ClaimTypeComparative = "comparative/superiority"
)

// ClaimTypes is the fixed y-axis enumeration.
var ClaimTypes = []string{
	ClaimTypeStatement,
	ClaimTypeImagery,
	ClaimTypeComparative,
}

// Taxonomy holds the ordered category lists used to lay out the claim map.
type Taxonomy struct {
	XCategories []string
	ClaimTypes  []string
}

// DefaultTaxonomy returns the built-in taxonomy.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		XCategories: append([]string(nil), DefaultXCategories...),
		ClaimTypes:  append([]string(nil), ClaimTypes...),
	}
}

// XIndex returns the taxonomy position of an x category, or -1.
func (t Taxonomy) XIndex(category string) int {
	return indexFold(t.XCategories, category)
}

// ClaimTypeIndex returns the y-axis position of a claim type, or -1.
func (t Taxonomy) ClaimTypeIndex(claimType string) int {
	return indexFold(t.ClaimTypes, claimType)
}

// NormalizeLabel trims and lower-cases a categorical value for comparison.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func indexFold(list []string, value string) int {
	want := NormalizeLabel(value)
	for i, v := range list {
		if NormalizeLabel(v) == want {
			return i
		}
	}
	return -1
}
