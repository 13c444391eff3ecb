package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/claimmap/internal/assets"
	"github.com/Veraticus/claimmap/internal/claims"
	"github.com/Veraticus/claimmap/internal/config"
	"github.com/Veraticus/claimmap/internal/engine"
	"github.com/Veraticus/claimmap/internal/export"
	"github.com/Veraticus/claimmap/internal/model"
	"github.com/Veraticus/claimmap/internal/storage"
)

// session bundles what every claim command needs: the effective settings,
// the loaded table and an engine over it.
type session struct {
	store    *claims.Store
	engine   *engine.Engine
	settings config.Settings
}

// loadSettings reads the effective configuration from the global viper.
func loadSettings() (config.Settings, error) {
	return config.Load(viper.GetViper())
}

// openSession loads the configured claim table and builds an engine over it.
func openSession(ctx context.Context) (*session, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return newSession(ctx, settings)
}

func newSession(ctx context.Context, settings config.Settings) (*session, error) {
	store, err := loadStore(ctx, settings.Data.Path)
	if err != nil {
		return nil, err
	}
	return &session{
		settings: settings,
		store:    store,
		engine:   newEngine(store, settings),
	}, nil
}

// loadStore loads a claim table from a delimited file or a SQLite snapshot.
func loadStore(ctx context.Context, path string) (*claims.Store, error) {
	store, err := claims.LoadFile(ctx, path, openSnapshot(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}
	slog.Debug("Loaded claims", "source", store.Source(), "records", store.Len())
	return store, nil
}

// openSnapshot returns the reader used for SQLite claim snapshots.
func openSnapshot(ctx context.Context) func(path string) (claims.RecordSource, io.Closer, error) {
	return func(path string) (claims.RecordSource, io.Closer, error) {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, fmt.Errorf("claim snapshot not found: %w", err)
		}

		db, err := storage.NewSQLiteStorage(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return db, db, nil
	}
}

func newEngine(store *claims.Store, settings config.Settings) *engine.Engine {
	cfg := engine.DefaultConfig()
	cfg.Taxonomy = settings.ClaimTaxonomy()
	cfg.MinMarker = settings.Chart.MinMarker
	cfg.MaxMarker = settings.Chart.MaxMarker
	return engine.NewWithConfig(store, cfg)
}

func newAssets(settings config.Settings) *assets.Library {
	return assets.NewLibrary(settings.Images.Dir, settings.Images.CacheTTL)
}

func newExporter(settings config.Settings) (*export.Exporter, error) {
	exporter, err := export.New(export.Config{
		Path:    settings.Export.Path,
		Width:   settings.Export.Width,
		Height:  settings.Export.Height,
		Scale:   settings.Export.Scale,
		Enabled: settings.Export.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid export configuration: %w", err)
	}
	return exporter, nil
}

// competitorCriteria builds competitor-view criteria from flag values. No
// --touchpoint flag means every touchpoint.
func competitorCriteria(country string, products, touchpoints []string, touchpointsSet bool) model.FilterCriteria {
	c := model.NewCompetitorCriteria(country, products, nil)
	if touchpointsSet {
		c = c.WithTouchpoints(touchpoints...)
	}
	return c
}
