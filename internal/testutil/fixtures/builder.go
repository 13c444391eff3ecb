// Package fixtures builds claim tables for tests.
//
// Example usage:
//
//	claims := fixtures.NewBuilder(t).
//		WithFixture(fixtures.FixtureMarket).
//		ForProduct(fixtures.CountryUS, fixtures.BrandA, "Night Balm").
//		Claim("sensory", model.ClaimTypeImagery, "Silky finish", 4).
//		Build()
//
//	db := testutil.SetupTestDB(t, claims)
package fixtures

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/Veraticus/claimmap/internal/model"
)

// Common labels used across tests.
const (
	CountryUS = "US"
	CountryFR = "FR"

	BrandA = "BrandA"
	BrandB = "BrandB"
	BrandC = "BrandC"

	TouchpointPackaging = "Packaging"
	TouchpointSocial    = "Social"
	TouchpointTV        = "TV"
)

// Claims is an ordered claim table.
type Claims []model.ClaimRecord

// ForCountry returns the claims of one country, in table order.
func (c Claims) ForCountry(country string) Claims {
	var out Claims
	for _, r := range c {
		if r.Country == country {
			out = append(out, r)
		}
	}
	return out
}

// Products returns the distinct product names in first-seen order.
func (c Claims) Products() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range c {
		if _, ok := seen[r.ProductName]; ok {
			continue
		}
		seen[r.ProductName] = struct{}{}
		out = append(out, r.ProductName)
	}
	return out
}

// CSV renders the claims as a comma-separated table with a header row.
func (c Claims) CSV() string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(model.Fields))
	for i, f := range model.Fields {
		header[i] = string(f)
	}
	_ = w.Write(header)

	for _, r := range c {
		row := make([]string, len(model.Fields))
		for i, f := range model.Fields {
			row[i] = r.Value(f)
		}
		_ = w.Write(row)
	}
	w.Flush()
	return buf.String()
}

// Builder provides a fluent interface for constructing claim tables. Claims
// are added for the product selected with ForProduct.
type Builder struct {
	t          testing.TB
	claims     Claims
	country    string
	brand      string
	product    string
	touchpoint string
}

// NewBuilder creates a new claim builder for the given test.
func NewBuilder(t testing.TB) *Builder {
	t.Helper()
	return &Builder{t: t, touchpoint: TouchpointPackaging}
}

// WithFixture appends a predefined claim table.
func (b *Builder) WithFixture(f Fixture) *Builder {
	b.claims = append(b.claims, f.Claims()...)
	return b
}

// WithClaims appends records as given.
func (b *Builder) WithClaims(records ...model.ClaimRecord) *Builder {
	b.claims = append(b.claims, records...)
	return b
}

// ForProduct selects the product that following Claim calls describe.
func (b *Builder) ForProduct(country, brand, product string) *Builder {
	b.country, b.brand, b.product = country, brand, product
	return b
}

// OnTouchpoint sets the touchpoint of following Claim calls.
func (b *Builder) OnTouchpoint(touchpoint string) *Builder {
	b.touchpoint = touchpoint
	return b
}

// Claim appends one claim of the selected product.
func (b *Builder) Claim(category, claimType, text string, relevancy float64) *Builder {
	b.t.Helper()
	if b.product == "" {
		b.t.Fatalf("Claim(%q) called before ForProduct", text)
	}
	b.claims = append(b.claims, model.ClaimRecord{
		Country:     b.country,
		Brand:       b.brand,
		ProductName: b.product,
		Touchpoint:  b.touchpoint,
		XCategory:   category,
		ClaimType:   claimType,
		ClaimText:   text,
		Relevancy:   relevancy,
	})
	return b
}

// Build returns a copy of the claims added so far.
func (b *Builder) Build() Claims {
	out := make(Claims, len(b.claims))
	copy(out, b.claims)
	return out
}
