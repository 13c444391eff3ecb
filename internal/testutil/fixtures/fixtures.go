package fixtures

import "github.com/Veraticus/claimmap/internal/model"

// Fixture is a predefined claim table.
type Fixture interface {
	// Name returns the fixture's descriptive name.
	Name() string

	// Claims returns a fresh copy of the fixture's records.
	Claims() Claims
}

type fixture struct {
	name   string
	claims Claims
}

func (f *fixture) Name() string { return f.name }

func (f *fixture) Claims() Claims {
	out := make(Claims, len(f.claims))
	copy(out, f.claims)
	return out
}

// Predefined fixtures for common test scenarios.
var (
	// FixtureEndToEnd is the three-row table of the reference filter example:
	// two US products of one brand and one French product.
	FixtureEndToEnd Fixture = &fixture{
		name: "EndToEnd",
		claims: Claims{
			{Country: CountryUS, Brand: BrandA, ProductName: "P1", Touchpoint: "social", XCategory: "emotion", ClaimType: model.ClaimTypeStatement, ClaimText: "txt1", Relevancy: 5},
			{Country: CountryUS, Brand: BrandA, ProductName: "P2", Touchpoint: "packaging", XCategory: "sensory", ClaimType: model.ClaimTypeImagery, ClaimText: "txt2", Relevancy: 3},
			{Country: CountryFR, Brand: BrandB, ProductName: "P3", Touchpoint: "social", XCategory: "science", ClaimType: model.ClaimTypeStatement, ClaimText: "txt3", Relevancy: 7},
		},
	}

	// FixtureMarket is a small two-country market with three US brands'
	// products across three touchpoints.
	FixtureMarket Fixture = &fixture{
		name: "Market",
		claims: Claims{
			{Country: CountryUS, Brand: BrandA, ProductName: "Hydra Serum", Touchpoint: TouchpointPackaging, XCategory: "science", ClaimType: model.ClaimTypeStatement, ClaimText: "Clinically proven hydration", Relevancy: 8},
			{Country: CountryUS, Brand: BrandA, ProductName: "Hydra Serum", Touchpoint: TouchpointSocial, XCategory: "emotion", ClaimType: model.ClaimTypeImagery, ClaimText: "Feel radiant", Relevancy: 5},
			{Country: CountryUS, Brand: BrandA, ProductName: "Glow Cream", Touchpoint: TouchpointPackaging, XCategory: "sensory", ClaimType: model.ClaimTypeComparative, ClaimText: "Smoother than ever", Relevancy: 3},
			{Country: CountryUS, Brand: BrandB, ProductName: "Night Balm", Touchpoint: TouchpointTV, XCategory: "clinical/instrumental", ClaimType: model.ClaimTypeStatement, ClaimText: "Tested on 100 women", Relevancy: 6},
			{Country: CountryFR, Brand: BrandC, ProductName: "Creme Douce", Touchpoint: TouchpointPackaging, XCategory: "emotion", ClaimType: model.ClaimTypeStatement, ClaimText: "Douceur", Relevancy: 4},
		},
	}
)
