package claims

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
)

const sampleCSV = `country,brand,product_name,touchpoint,x_category,claim_type,claim_text,relevancy
US,BrandA,P1,social,emotion,statement,txt1,5
US,BrandA,P2,packaging,sensory,imagery,txt2,3
FR,BrandB,P3,social,emotion,statement,txt3,2
`

func TestLoad(t *testing.T) {
	store, err := Load(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, "sample.csv", store.Source())

	records := store.Records()
	assert.Equal(t, model.ClaimRecord{
		Country:     "US",
		Brand:       "BrandA",
		ProductName: "P1",
		Touchpoint:  "social",
		XCategory:   "emotion",
		ClaimType:   "statement",
		ClaimText:   "txt1",
		Relevancy:   5,
	}, records[0])
	assert.InDelta(t, 2.0, records[2].Relevancy, 0.0001)
}

func TestLoad_HeaderVariants(t *testing.T) {
	t.Run("bom, case and extra columns", func(t *testing.T) {
		input := "\xEF\xBB\xBFNotes, Country ,BRAND,product_name,touchpoint,x_category,claim_type,claim_text,Relevancy\n" +
			"ignored,US,BrandA,P1,social,emotion,statement,\"quoted, text\",1.5\n"

		store, err := Load(strings.NewReader(input), "variant.csv")
		require.NoError(t, err)
		require.Equal(t, 1, store.Len())

		rec := store.Records()[0]
		assert.Equal(t, "US", rec.Country)
		assert.Equal(t, "quoted, text", rec.ClaimText)
		assert.InDelta(t, 1.5, rec.Relevancy, 0.0001)
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		input := sampleCSV + ",,,,,,,\n"
		store, err := Load(strings.NewReader(input), "blank.csv")
		require.NoError(t, err)
		assert.Equal(t, 3, store.Len())
	})
}

func TestLoad_DataFormatErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMissing []string
		wantLine    int
	}{
		{
			name:        "empty input",
			input:       "",
			wantMissing: []string{"country", "brand", "product_name", "touchpoint", "x_category", "claim_type", "claim_text", "relevancy"},
		},
		{
			name:        "missing columns",
			input:       "country,brand,product_name,touchpoint,x_category,claim_text\nUS,A,P,social,emotion,t\n",
			wantMissing: []string{"claim_type", "relevancy"},
		},
		{
			name:     "non numeric relevancy",
			input:    "country,brand,product_name,touchpoint,x_category,claim_type,claim_text,relevancy\nUS,A,P,social,emotion,statement,t,5\nUS,A,P,social,emotion,statement,t,high\n",
			wantLine: 3,
		},
		{
			name:     "empty relevancy",
			input:    "country,brand,product_name,touchpoint,x_category,claim_type,claim_text,relevancy\nUS,A,P,social,emotion,statement,t,\n",
			wantLine: 2,
		},
		{
			name:     "nan relevancy",
			input:    "country,brand,product_name,touchpoint,x_category,claim_type,claim_text,relevancy\nUS,A,P,social,emotion,statement,t,NaN\n",
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), "bad.csv")
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrDataFormat)

			var dfe *common.DataFormatError
			require.True(t, errors.As(err, &dfe))
			assert.Equal(t, tt.wantMissing, dfe.Missing)
			assert.Equal(t, tt.wantLine, dfe.Line)
		})
	}
}

func TestLoad_OutOfTaxonomyValuesAccepted(t *testing.T) {
	input := "country,brand,product_name,touchpoint,x_category,claim_type,claim_text,relevancy\n" +
		"US,A,P,social,heritage,testimonial,t,1\n"

	store, err := Load(strings.NewReader(input), "odd.csv")
	require.NoError(t, err)
	assert.Equal(t, "heritage", store.Records()[0].XCategory)
	assert.Equal(t, "testimonial", store.Records()[0].ClaimType)
}

type stubSource struct {
	records []model.ClaimRecord
	closed  bool
}

func (s *stubSource) LoadClaims(context.Context) ([]model.ClaimRecord, error) {
	return s.records, nil
}

func (s *stubSource) Close() error {
	s.closed = true
	return nil
}

func TestLoadFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "claims.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

		store, err := LoadFile(ctx, path, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, store.Len())
	})

	t.Run("tsv", func(t *testing.T) {
		path := filepath.Join(dir, "claims.tsv")
		require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(sampleCSV, ",", "\t")), 0o600))

		store, err := LoadFile(ctx, path, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, store.Len())
	})

	t.Run("database", func(t *testing.T) {
		src := &stubSource{records: []model.ClaimRecord{{Country: "US", ProductName: "P1"}}}
		open := func(string) (RecordSource, io.Closer, error) { return src, src, nil }

		store, err := LoadFile(ctx, filepath.Join(dir, "claims.db"), open)
		require.NoError(t, err)
		assert.Equal(t, 1, store.Len())
		assert.True(t, src.closed)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(ctx, filepath.Join(dir, "nope.csv"), nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
