package engine

import (
	"fmt"
	"strings"

	"github.com/Veraticus/claimmap/internal/model"
)

// Count is a labelled tally.
type Count struct {
	Label string
	Count int
}

// Summary aggregates a Result for status lines and reports.
type Summary struct {
	Criteria      model.FilterCriteria
	Products      []Count // legend order
	Categories    []Count // x axis order, zero counts included
	ClaimTypes    []Count // y axis order, zero counts included
	Total         int
	OutOfTaxonomy int
	MeanRelevancy float64
}

// Summary counts the projected points per product, x category and claim type.
func (e *Engine) Summary(result Result) Summary {
	p := result.Projection
	s := Summary{
		Criteria:   result.Criteria,
		Total:      len(p.Points),
		Products:   zeroCounts(p.Products),
		Categories: zeroCounts(p.XCategories),
		ClaimTypes: zeroCounts(p.YCategories),
	}

	productIndex := make(map[string]int, len(p.Products))
	for i, name := range p.Products {
		productIndex[name] = i
	}

	var relevancy float64
	for _, pt := range p.Points {
		s.Products[productIndex[pt.Product]].Count++
		s.Categories[pt.XIndex].Count++
		s.ClaimTypes[pt.YIndex].Count++
		if !pt.InTaxonomy || !pt.KnownType {
			s.OutOfTaxonomy++
		}
		relevancy += pt.Relevancy
	}
	if s.Total > 0 {
		s.MeanRelevancy = relevancy / float64(s.Total)
	}
	return s
}

// StatusLine renders the summary as a single line.
func (s Summary) StatusLine() string {
	if s.Total == 0 {
		return "no matching claims"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s across %d %s",
		s.Total, plural(s.Total, "claim", "claims"),
		len(s.Products), plural(len(s.Products), "product", "products"))
	if s.OutOfTaxonomy > 0 {
		fmt.Fprintf(&b, ", %d outside taxonomy", s.OutOfTaxonomy)
	}
	return b.String()
}

func zeroCounts(labels []string) []Count {
	out := make([]Count, len(labels))
	for i, l := range labels {
		out[i] = Count{Label: l}
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
