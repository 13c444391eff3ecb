package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "claims_dataset.csv", s.Data.Path)
	assert.Equal(t, "images", s.Images.Dir)
	assert.Equal(t, 5*time.Minute, s.Images.CacheTTL)
	assert.Equal(t, ExportSettings{Path: "claim_map.png", Width: 1280, Height: 720, Scale: 2, Enabled: true}, s.Export)
	assert.Equal(t, model.DefaultXCategories, s.Taxonomy.XCategories)
	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, "console", s.Logging.Format)
}

func TestLoad_ExpandsPaths(t *testing.T) {
	t.Setenv("CLAIMS_HOME", "/srv/claims")
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyDataPath, "$CLAIMS_HOME/table.csv")
	v.Set(KeyImagesDir, "$CLAIMS_HOME/images")

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/claims", "table.csv"), s.Data.Path)
	assert.Equal(t, "/srv/claims/images", s.Images.Dir)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		modify func(*viper.Viper)
		target error
		name   string
	}{
		{
			name:   "empty data path",
			modify: func(v *viper.Viper) { v.Set(KeyDataPath, "") },
			target: common.ErrMissingConfig,
		},
		{
			name:   "min marker above max",
			modify: func(v *viper.Viper) { v.Set(KeyMinMarker, 30.0) },
			target: common.ErrInvalidConfig,
		},
		{
			name:   "zero min marker",
			modify: func(v *viper.Viper) { v.Set(KeyMinMarker, 0.0) },
			target: common.ErrInvalidConfig,
		},
		{
			name:   "duplicate category",
			modify: func(v *viper.Viper) { v.Set(KeyXCategories, []string{"science", " Science"}) },
			target: common.ErrInvalidConfig,
		},
		{
			name:   "empty taxonomy",
			modify: func(v *viper.Viper) { v.Set(KeyXCategories, []string{}) },
			target: common.ErrInvalidConfig,
		},
		{
			name:   "custom taxonomy",
			modify: func(v *viper.Viper) { v.Set(KeyXCategories, []string{"efficacy", "texture"}) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			tt.modify(v)

			_, err := Load(v)
			if tt.target == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestSettings_ClaimTaxonomy(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyXCategories, []string{"efficacy", "texture"})

	s, err := Load(v)
	require.NoError(t, err)

	tax := s.ClaimTaxonomy()
	assert.Equal(t, []string{"efficacy", "texture"}, tax.XCategories)
	assert.Equal(t, model.ClaimTypes, tax.ClaimTypes)

	tax.XCategories[0] = "changed"
	assert.Equal(t, "efficacy", s.Taxonomy.XCategories[0])
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("CLAIMMAP_TEST_DIR", "/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/tester/claims.csv", ExpandPath("~/claims.csv"))
	assert.Equal(t, "/home/tester", ExpandPath("~"))
	assert.Equal(t, "/data/claims.db", ExpandPath("$CLAIMMAP_TEST_DIR/claims.db"))
	assert.Equal(t, "relative/path", ExpandPath("relative/path"))
}
