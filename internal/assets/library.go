// Package assets resolves the pre-rendered product-mapping images.
package assets

import (
	"fmt"
	"image"
	_ "image/png" // PNG header decoding
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
)

// Extension is the file extension of reference images.
const Extension = ".png"

// Asset is a reference image found on disk.
type Asset struct {
	Key    string
	Path   string
	Width  int
	Height int
}

// lookup is what the cache stores for a key; misses are cached too.
type lookup struct {
	err   error
	asset Asset
}

// Library looks up reference images in a directory and memoises results.
type Library struct {
	cache *gocache.Cache
	dir   string
}

// NewLibrary creates a library rooted at dir. A ttl of zero disables caching.
func NewLibrary(dir string, ttl time.Duration) *Library {
	l := &Library{dir: dir}
	if ttl > 0 {
		l.cache = gocache.New(ttl, 2*ttl)
	}
	return l
}

// Dir returns the image directory.
func (l *Library) Dir() string {
	return l.dir
}

// Key builds the image key for a country, brand and product.
func Key(country, brand, product string) string {
	return model.NewProductCriteria(country, brand, product).ImageKey()
}

// Path returns where the image for key is expected.
func (l *Library) Path(key string) string {
	return filepath.Join(l.dir, key+Extension)
}

// Lookup resolves the image of a product. A missing or unreadable image
// yields an *common.AssetNotFoundError.
func (l *Library) Lookup(country, brand, product string) (Asset, error) {
	key := Key(country, brand, product)
	if l.cache != nil {
		if v, found := l.cache.Get(key); found {
			hit := v.(lookup)
			return hit.asset, hit.err
		}
	}

	asset, err := l.load(key)
	if l.cache != nil {
		l.cache.SetDefault(key, lookup{asset: asset, err: err})
	}
	return asset, err
}

// LookupCriteria resolves the image for product-mapping criteria.
func (l *Library) LookupCriteria(c model.FilterCriteria) (Asset, error) {
	return l.Lookup(c.Country, c.Brand, c.Product())
}

// Forget drops every memoised lookup.
func (l *Library) Forget() {
	if l.cache != nil {
		l.cache.Flush()
	}
}

func (l *Library) load(key string) (Asset, error) {
	path := l.Path(key)

	f, err := os.Open(path) //nolint:gosec // path is built from the configured image directory
	if err != nil {
		common.LogDebug("Reference image not found", common.Fields{"key": key, "path": path})
		return Asset{}, &common.AssetNotFoundError{Key: key, Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Asset{}, &common.AssetNotFoundError{
			Key:  key,
			Path: path,
			Err:  fmt.Errorf("failed to decode image header: %w", err),
		}
	}
	if format != "png" {
		return Asset{}, &common.AssetNotFoundError{
			Key:  key,
			Path: path,
			Err:  fmt.Errorf("unexpected image format %q", format),
		}
	}

	return Asset{Key: key, Path: path, Width: cfg.Width, Height: cfg.Height}, nil
}
