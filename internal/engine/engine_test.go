package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/claimmap/internal/claims"
	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
)

func sampleStore() *claims.Store {
	return claims.NewStore("sample", []model.ClaimRecord{
		{Country: "US", Brand: "BrandA", ProductName: "P1", Touchpoint: "social", XCategory: "emotion", ClaimType: "statement", ClaimText: "txt1", Relevancy: 5},
		{Country: "US", Brand: "BrandA", ProductName: "P2", Touchpoint: "packaging", XCategory: "sensory", ClaimType: "imagery", ClaimText: "txt2", Relevancy: 3},
		{Country: "FR", Brand: "BrandB", ProductName: "P3", Touchpoint: "social", XCategory: "emotion", ClaimType: "statement", ClaimText: "txt3", Relevancy: 2},
	})
}

func marketStore() *claims.Store {
	return claims.NewStore("market", []model.ClaimRecord{
		{Country: "US", Brand: "Lumi", ProductName: "Glow Serum", Touchpoint: "tv", XCategory: "science", ClaimType: "statement", Relevancy: 8},
		{Country: "US", Brand: "Lumi", ProductName: "Glow Serum", Touchpoint: "social", XCategory: "Sensory", ClaimType: "Imagery", Relevancy: 2},
		{Country: "US", Brand: "Verde", ProductName: "Leaf Cream", Touchpoint: "packaging", XCategory: "ingredient", ClaimType: "comparative/superiority", Relevancy: 4},
		{Country: "US", Brand: "Verde", ProductName: "Leaf Cream", Touchpoint: "social", XCategory: "heritage", ClaimType: "testimonial", Relevancy: 1},
		{Country: "US", Brand: "Verde", ProductName: "Root Oil", Touchpoint: "tv", XCategory: "packaging", ClaimType: "statement", Relevancy: 0},
		{Country: "DE", Brand: "Nord", ProductName: "Frost Balm", Touchpoint: "ecommerce", XCategory: "clinical/instrumental", ClaimType: "statement", Relevancy: 6},
		{Country: "DE", Brand: "Lumi", ProductName: "Glow Serum", Touchpoint: "tv", XCategory: "awards", ClaimType: "imagery", Relevancy: 3},
	})
}

// sequenceRand returns the given values in order, then repeats the last.
type sequenceRand struct {
	values []float64
	next   int
}

func (r *sequenceRand) Float64() float64 {
	v := r.values[min(r.next, len(r.values)-1)]
	r.next++
	return v
}

func TestEngine_EndToEndExample(t *testing.T) {
	e := New(sampleStore())

	result, err := e.Run(model.NewCompetitorCriteria("US", []string{"P1", "P2"}, nil))
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	for _, r := range result.Records {
		assert.NotEqual(t, "FR", r.Country)
	}

	p := result.Projection
	assert.Equal(t, model.DefaultXCategories, p.XCategories)
	assert.Equal(t, []string{"P1", "P2"}, p.Products)
	require.Len(t, p.Points, 2)

	p1, p2 := p.Points[0], p.Points[1]
	assert.Equal(t, "P1", p1.Product)
	assert.Equal(t, "emotion", p1.XCategory)
	assert.Equal(t, 4, p1.XIndex)
	assert.InDelta(t, 0, p1.Y, 0.2)
	assert.Equal(t, "txt1", p1.Hover.ClaimText)
	assert.Equal(t, "social", p1.Hover.Touchpoint)

	assert.Equal(t, "P2", p2.Product)
	assert.Equal(t, "sensory", p2.XCategory)
	assert.Equal(t, 5, p2.XIndex)
	assert.InDelta(t, 1, p2.Y, 0.2)
	assert.NotEqual(t, p1.ColorIndex, p2.ColorIndex)
}

func TestEngine_Filter(t *testing.T) {
	store := marketStore()
	e := New(store)

	tests := []struct {
		name     string
		criteria model.FilterCriteria
		want     []string // claim products, in table order
	}{
		{
			name:     "competitor with default touchpoints",
			criteria: model.NewCompetitorCriteria("US", []string{"Glow Serum", "Leaf Cream"}, nil),
			want:     []string{"Glow Serum", "Glow Serum", "Leaf Cream", "Leaf Cream"},
		},
		{
			name:     "competitor with touchpoint subset",
			criteria: model.NewCompetitorCriteria("US", []string{"Glow Serum", "Leaf Cream", "Root Oil"}, []string{"tv"}),
			want:     []string{"Glow Serum", "Root Oil"},
		},
		{
			name:     "competitor without products",
			criteria: model.NewCompetitorCriteria("US", []string{}, nil),
			want:     []string{},
		},
		{
			name:     "competitor with no touchpoints selected",
			criteria: model.NewCompetitorCriteria("US", []string{"Glow Serum"}, []string{}),
			want:     []string{},
		},
		{
			name:     "product mapping",
			criteria: model.NewProductCriteria("US", "Verde", "Leaf Cream"),
			want:     []string{"Leaf Cream", "Leaf Cream"},
		},
		{
			name:     "product mapping without brand",
			criteria: model.NewProductCriteria("US", "", "Leaf Cream"),
			want:     []string{},
		},
		{
			name:     "unknown country",
			criteria: model.NewCompetitorCriteria("JP", []string{"Glow Serum"}, nil),
			want:     []string{},
		},
		{
			name:     "product from another country is excluded",
			criteria: model.NewCompetitorCriteria("DE", []string{"Glow Serum", "Leaf Cream"}, nil),
			want:     []string{"Glow Serum"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Filter(tt.criteria)
			require.NoError(t, err)
			require.NotNil(t, got)

			names := make([]string, len(got))
			for i, r := range got {
				names[i] = r.ProductName
				assertSatisfies(t, tt.criteria, r)
				assert.Contains(t, store.Records(), r)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func assertSatisfies(t *testing.T, c model.FilterCriteria, r model.ClaimRecord) {
	t.Helper()
	assert.Equal(t, c.Country, r.Country)
	if c.View == model.ViewProductMapping {
		assert.Equal(t, c.Brand, r.Brand)
		assert.Equal(t, c.Product(), r.ProductName)
	} else {
		assert.Contains(t, c.Products, r.ProductName)
	}
	if c.Touchpoints != nil {
		assert.Contains(t, c.Touchpoints, r.Touchpoint)
	}
}

func TestEngine_FilterRequiresCountry(t *testing.T) {
	e := New(marketStore())

	_, err := e.Filter(model.NewCompetitorCriteria(" ", []string{"Glow Serum"}, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidCriteria))

	var criteriaErr *common.InvalidCriteriaError
	require.True(t, errors.As(err, &criteriaErr))
	assert.Equal(t, "country", criteriaErr.Field)

	_, err = e.Run(model.FilterCriteria{View: model.ViewCompetitor})
	assert.True(t, errors.Is(err, common.ErrInvalidCriteria))
}

func TestEngine_AllTouchpointsEqualsDefault(t *testing.T) {
	store := marketStore()
	e := New(store)
	all := store.DistinctValues(model.FieldTouchpoint)

	for _, country := range []string{"US", "DE"} {
		products := e.Options(model.NewCompetitorCriteria(country, nil, nil)).Products
		withDefault, err := e.Filter(model.NewCompetitorCriteria(country, products, nil))
		require.NoError(t, err)
		withAll, err := e.Filter(model.NewCompetitorCriteria(country, products, all))
		require.NoError(t, err)
		assert.Equal(t, withDefault, withAll, country)
	}
}

func TestEngine_Options(t *testing.T) {
	e := New(marketStore())

	us := e.Options(model.NewCompetitorCriteria("US", nil, nil))
	assert.Equal(t, []string{"DE", "US"}, us.Countries)
	assert.Equal(t, []string{"Lumi", "Verde"}, us.Brands)
	assert.Equal(t, []string{"Glow Serum", "Leaf Cream", "Root Oil"}, us.Products)
	assert.Equal(t, []string{"ecommerce", "packaging", "social", "tv"}, us.Touchpoints)

	de := e.Options(model.NewCompetitorCriteria("DE", nil, nil))
	assert.Equal(t, []string{"Lumi", "Nord"}, de.Brands)
	assert.Equal(t, us.Touchpoints, de.Touchpoints, "touchpoints come from the unfiltered table")

	mapping := e.Options(model.NewProductCriteria("US", "Verde", ""))
	assert.Equal(t, []string{"Leaf Cream", "Root Oil"}, mapping.Products)

	none := e.Options(model.NewProductCriteria("JP", "", ""))
	assert.Empty(t, none.Brands)
	assert.Empty(t, none.Products)
}

func TestEngine_Reconcile(t *testing.T) {
	e := New(marketStore())

	t.Run("country change drops brand not offered", func(t *testing.T) {
		c := model.NewProductCriteria("US", "Verde", "Leaf Cream").WithCountry("DE")
		got := e.Reconcile(c)
		assert.Equal(t, "DE", got.Country)
		assert.Empty(t, got.Brand)
		assert.Empty(t, got.Products)
	})

	t.Run("brand offered in both countries is kept", func(t *testing.T) {
		c := model.NewProductCriteria("US", "Lumi", "Glow Serum").WithCountry("DE")
		got := e.Reconcile(c)
		assert.Equal(t, "Lumi", got.Brand)
		assert.Equal(t, []string{"Glow Serum"}, got.Products)
	})

	t.Run("competitor drops products of other countries", func(t *testing.T) {
		c := model.NewCompetitorCriteria("US", []string{"Glow Serum", "Leaf Cream"}, nil).WithCountry("DE")
		got := e.Reconcile(c)
		assert.Equal(t, []string{"Glow Serum"}, got.Products)
		assert.Nil(t, got.Touchpoints, "default touchpoints stay default")
	})

	t.Run("unknown touchpoints dropped", func(t *testing.T) {
		c := model.NewCompetitorCriteria("US", []string{"Glow Serum"}, []string{"tv", "radio"})
		got := e.Reconcile(c)
		assert.Equal(t, []string{"tv"}, got.Touchpoints)
	})

	t.Run("input is not modified", func(t *testing.T) {
		c := model.NewCompetitorCriteria("DE", []string{"Glow Serum", "Leaf Cream"}, nil)
		_ = e.Reconcile(c)
		assert.Equal(t, []string{"Glow Serum", "Leaf Cream"}, c.Products)
	})
}

func TestEngine_ProjectJitterBounds(t *testing.T) {
	e := New(marketStore())
	records, err := e.Filter(model.NewCompetitorCriteria("US", []string{"Glow Serum", "Leaf Cream", "Root Oil"}, nil))
	require.NoError(t, err)

	for range 200 {
		p := e.Project(records)
		for _, pt := range p.Points {
			assert.LessOrEqual(t, math.Abs(pt.Y-float64(pt.YIndex)), 0.2+1e-9)
		}
	}

	extremes := NewWithConfig(marketStore(), Config{
		NewRand: func() RandSource {
			return &sequenceRand{values: []float64{0, math.Nextafter(1, 0)}}
		},
	})
	p := extremes.Project(records[:2])
	assert.InDelta(t, -0.2, p.Points[0].Y-float64(p.Points[0].YIndex), 1e-9)
	assert.InDelta(t, 0.2, p.Points[1].Y-float64(p.Points[1].YIndex), 1e-9)
}

func TestEngine_ProjectAxes(t *testing.T) {
	e := New(marketStore())
	records, err := e.Filter(model.NewCompetitorCriteria("US", []string{"Glow Serum", "Leaf Cream"}, nil))
	require.NoError(t, err)

	p := e.Project(records)

	want := append(append([]string{}, model.DefaultXCategories...), "heritage")
	assert.Equal(t, want, p.XCategories)
	assert.Equal(t, []string{"statement", "imagery", "comparative/superiority", "testimonial"}, p.YCategories)

	byText := map[string]model.ChartPoint{}
	for _, pt := range p.Points {
		byText[pt.XCategory+"|"+pt.ClaimType] = pt
	}

	sensory := byText["sensory|imagery"]
	assert.Equal(t, 5, sensory.XIndex, "matching ignores case")
	assert.Equal(t, 1, sensory.YIndex)
	assert.True(t, sensory.InTaxonomy)
	assert.Equal(t, "Imagery", sensory.Hover.ClaimType, "hover keeps the original label")

	heritage := byText["heritage|testimonial"]
	assert.Equal(t, 10, heritage.XIndex)
	assert.Equal(t, 3, heritage.YIndex)
	assert.False(t, heritage.InTaxonomy)
	assert.False(t, heritage.KnownType)
}

func TestEngine_ProjectCustomTaxonomy(t *testing.T) {
	e := NewWithConfig(marketStore(), Config{
		Taxonomy: model.Taxonomy{XCategories: []string{"sensory", "science"}},
	})
	records, err := e.Filter(model.NewCompetitorCriteria("US", []string{"Glow Serum"}, nil))
	require.NoError(t, err)

	p := e.Project(records)
	assert.Equal(t, []string{"sensory", "science"}, p.XCategories)
	assert.Equal(t, model.ClaimTypes, p.YCategories)
	assert.Equal(t, 1, p.Points[0].XIndex)
	assert.Equal(t, 0, p.Points[1].XIndex)
}

func TestEngine_ProjectBlankCategory(t *testing.T) {
	store := claims.NewStore("blank", []model.ClaimRecord{
		{Country: "US", ProductName: "P", XCategory: "  ", ClaimType: "statement", Relevancy: 1},
	})
	p := New(store).Project(store.Records())

	assert.Equal(t, UnspecifiedLabel, p.XCategories[len(p.XCategories)-1])
	assert.Equal(t, UnspecifiedLabel, p.Points[0].XCategory)
}

func TestEngine_MarkerSize(t *testing.T) {
	e := New(sampleStore())

	tests := []struct {
		name      string
		relevancy float64
		max       float64
		want      float64
	}{
		{name: "largest gets max", relevancy: 5, max: 5, want: 20},
		{name: "area proportional", relevancy: 1.25, max: 5, want: 10},
		{name: "floored at min", relevancy: 0.001, max: 5, want: 4},
		{name: "zero relevancy", relevancy: 0, max: 5, want: 4},
		{name: "negative relevancy", relevancy: -2, max: 5, want: 4},
		{name: "no positive max", relevancy: 0, max: 0, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, e.markerSize(tt.relevancy, tt.max), 1e-9)
		})
	}
}

func TestEngine_EmptyResult(t *testing.T) {
	e := New(marketStore())

	result, err := e.Run(model.NewCompetitorCriteria("US", []string{"Frost Balm"}, nil))
	require.NoError(t, err)

	assert.True(t, result.IsEmpty())
	assert.True(t, result.Projection.IsEmpty())
	assert.Empty(t, result.Projection.Products)
	assert.Equal(t, model.DefaultXCategories, result.Projection.XCategories)
}

func TestEngine_Summary(t *testing.T) {
	e := New(marketStore())
	result, err := e.Run(model.NewCompetitorCriteria("US", []string{"Glow Serum", "Leaf Cream"}, nil))
	require.NoError(t, err)

	s := e.Summary(result)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, []Count{{Label: "Glow Serum", Count: 2}, {Label: "Leaf Cream", Count: 2}}, s.Products)
	assert.Len(t, s.Categories, 11)
	assert.Equal(t, Count{Label: "science", Count: 1}, s.Categories[0])
	assert.Equal(t, Count{Label: "heritage", Count: 1}, s.Categories[10])
	assert.Equal(t, 1, s.OutOfTaxonomy)
	assert.InDelta(t, 3.75, s.MeanRelevancy, 1e-9)
	assert.Equal(t, "4 claims across 2 products, 1 outside taxonomy", s.StatusLine())

	empty := e.Summary(Result{})
	assert.Equal(t, "no matching claims", empty.StatusLine())
}
