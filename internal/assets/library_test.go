package assets

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "US_BrandA_P1", Key("US", "BrandA", "P1"))
	assert.Equal(t, "FR_Maison Rose_Eau de Soin", Key("FR", "Maison Rose", "Eau de Soin"))
}

func TestLibrary_Lookup(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "US_BrandA_P1.png"), 32, 18)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "US_BrandA_P2.png"), []byte("not an image"), 0o600))

	lib := NewLibrary(dir, time.Minute)

	tests := []struct {
		name    string
		product string
		want    Asset
		wantErr bool
	}{
		{
			name:    "existing image",
			product: "P1",
			want:    Asset{Key: "US_BrandA_P1", Path: filepath.Join(dir, "US_BrandA_P1.png"), Width: 32, Height: 18},
		},
		{
			name:    "undecodable image",
			product: "P2",
			wantErr: true,
		},
		{
			name:    "missing image",
			product: "P3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lib.Lookup("US", "BrandA", tt.product)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrAssetNotFound))
			var notFound *common.AssetNotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, "US_BrandA_"+tt.product, notFound.Key)
			assert.Equal(t, "No image available for selected filters.", common.Notice(err))
		})
	}
}

func TestLibrary_LookupCriteria(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "US_BrandA_P1.png"), 16, 9)

	lib := NewLibrary(dir, 0)
	asset, err := lib.LookupCriteria(model.NewProductCriteria("US", "BrandA", "P1"))
	require.NoError(t, err)
	assert.Equal(t, 16, asset.Width)
}

func TestLibrary_CachesLookups(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir, time.Minute)

	_, err := lib.Lookup("US", "BrandA", "P1")
	require.Error(t, err)

	// The miss is memoised until the cache is flushed.
	writePNG(t, filepath.Join(dir, "US_BrandA_P1.png"), 8, 8)
	_, err = lib.Lookup("US", "BrandA", "P1")
	require.Error(t, err)

	lib.Forget()
	asset, err := lib.Lookup("US", "BrandA", "P1")
	require.NoError(t, err)
	assert.Equal(t, 8, asset.Height)
}

func TestLibrary_NoCache(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir, 0)

	_, err := lib.Lookup("US", "BrandA", "P1")
	require.Error(t, err)

	writePNG(t, filepath.Join(dir, "US_BrandA_P1.png"), 8, 8)
	_, err = lib.Lookup("US", "BrandA", "P1")
	require.NoError(t, err)
}
