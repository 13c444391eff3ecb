package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
	"github.com/spf13/viper"
)

// Configuration keys shared by the commands.
const (
	KeyDataPath       = "data.path"
	KeyImagesDir      = "images.dir"
	KeyAssetCacheTTL  = "images.cache_ttl"
	KeyDatabasePath   = "database.path"
	KeyExportEnabled  = "export.enabled"
	KeyExportPath     = "export.path"
	KeyExportWidth    = "export.width"
	KeyExportHeight   = "export.height"
	KeyExportScale    = "export.scale"
	KeyXCategories    = "taxonomy.x_categories"
	KeyMinMarker      = "chart.min_marker"
	KeyMaxMarker      = "chart.max_marker"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyLogFile        = "logging.file"
	KeySheetsBatch    = "sheets.batch_size"
	KeySheetsAttempts = "sheets.retry_attempts"
)

// Settings is the effective configuration of a claimmap run.
type Settings struct {
	Data     DataSettings     `yaml:"data"`
	Images   ImageSettings    `yaml:"images"`
	Export   ExportSettings   `yaml:"export"`
	Chart    ChartSettings    `yaml:"chart"`
	Taxonomy TaxonomySettings `yaml:"taxonomy"`
	Logging  LogSettings      `yaml:"logging"`
	Database DatabaseSettings `yaml:"database"`
}

// DataSettings locates the claim table.
type DataSettings struct {
	Path string `yaml:"path"`
}

// ImageSettings locates the product-mapping reference images.
type ImageSettings struct {
	Dir      string        `yaml:"dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ExportSettings controls PNG export of the claim map.
type ExportSettings struct {
	Path    string  `yaml:"path"`
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Scale   float64 `yaml:"scale"`
	Enabled bool    `yaml:"enabled"`
}

// ChartSettings bounds the marker sizes of projected points.
type ChartSettings struct {
	MinMarker float64 `yaml:"min_marker"`
	MaxMarker float64 `yaml:"max_marker"`
}

// TaxonomySettings overrides the x-axis category order.
type TaxonomySettings struct {
	XCategories []string `yaml:"x_categories"`
}

// LogSettings configures slog.
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// DatabaseSettings locates the SQLite snapshot written by import.
type DatabaseSettings struct {
	Path string `yaml:"path"`
}

// SetDefaults registers the default configuration on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataPath, "claims_dataset.csv")
	v.SetDefault(KeyImagesDir, "images")
	v.SetDefault(KeyAssetCacheTTL, 5*time.Minute)
	v.SetDefault(KeyDatabasePath, "$HOME/.local/share/claimmap/claims.db")
	v.SetDefault(KeyExportEnabled, true)
	v.SetDefault(KeyExportPath, "claim_map.png")
	v.SetDefault(KeyExportWidth, 1280)
	v.SetDefault(KeyExportHeight, 720)
	v.SetDefault(KeyExportScale, 2.0)
	v.SetDefault(KeyXCategories, model.DefaultXCategories)
	v.SetDefault(KeyMinMarker, 4.0)
	v.SetDefault(KeyMaxMarker, 20.0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogFile, "$HOME/.local/share/claimmap/dashboard.log")
	v.SetDefault(KeySheetsBatch, 1000)
	v.SetDefault(KeySheetsAttempts, 3)
}

// Load reads the effective settings from v and validates them.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Data:     DataSettings{Path: ExpandPath(v.GetString(KeyDataPath))},
		Images:   ImageSettings{Dir: ExpandPath(v.GetString(KeyImagesDir)), CacheTTL: v.GetDuration(KeyAssetCacheTTL)},
		Database: DatabaseSettings{Path: ExpandPath(v.GetString(KeyDatabasePath))},
		Export: ExportSettings{
			Enabled: v.GetBool(KeyExportEnabled),
			Path:    ExpandPath(v.GetString(KeyExportPath)),
			Width:   v.GetInt(KeyExportWidth),
			Height:  v.GetInt(KeyExportHeight),
			Scale:   v.GetFloat64(KeyExportScale),
		},
		Chart: ChartSettings{
			MinMarker: v.GetFloat64(KeyMinMarker),
			MaxMarker: v.GetFloat64(KeyMaxMarker),
		},
		Taxonomy: TaxonomySettings{XCategories: v.GetStringSlice(KeyXCategories)},
		Logging: LogSettings{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			File:   ExpandPath(v.GetString(KeyLogFile)),
		},
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for values the rest of the program cannot handle.
func (s Settings) Validate() error {
	if s.Data.Path == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDataPath)
	}
	if s.Chart.MinMarker <= 0 || s.Chart.MaxMarker < s.Chart.MinMarker {
		return fmt.Errorf("%w: marker sizes must satisfy 0 < min_marker <= max_marker", common.ErrInvalidConfig)
	}
	if len(s.Taxonomy.XCategories) == 0 {
		return fmt.Errorf("%w: %s must list at least one category", common.ErrInvalidConfig, KeyXCategories)
	}
	seen := make(map[string]struct{}, len(s.Taxonomy.XCategories))
	for _, c := range s.Taxonomy.XCategories {
		key := model.NormalizeLabel(c)
		if key == "" {
			return fmt.Errorf("%w: empty x category", common.ErrInvalidConfig)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate x category %q", common.ErrInvalidConfig, c)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ClaimTaxonomy returns the configured taxonomy.
func (s Settings) ClaimTaxonomy() model.Taxonomy {
	t := model.DefaultTaxonomy()
	t.XCategories = append([]string(nil), s.Taxonomy.XCategories...)
	return t
}
