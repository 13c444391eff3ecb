// Package testutil provides shared test setup for claim tables and their
// SQLite snapshots.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/claimmap/internal/storage"
	"github.com/Veraticus/claimmap/internal/testutil/fixtures"
)

// TestDB represents a seeded snapshot database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Claims  fixtures.Claims
	t       testing.TB
}

// SetupTestDB creates a migrated snapshot database in a temporary directory
// and stores claims in it. The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, fixtures.FixtureMarket.Claims())
func SetupTestDB(t testing.TB, claims fixtures.Claims) *TestDB {
	t.Helper()

	// Create file-backed SQLite storage so commands can reopen it by path
	db, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "claims.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = db.Close()
	})

	// Run migrations
	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if claims == nil {
		claims = fixtures.Claims{}
	}
	if err := db.ReplaceClaims(ctx, claims); err != nil {
		t.Fatalf("failed to seed claims: %v", err)
	}

	return &TestDB{
		Storage: db,
		Claims:  claims,
		t:       t,
	}
}

// SetupTestDBWithBuilder creates a test database using a claim builder.
//
// Example:
//
//	db := testutil.SetupTestDBWithBuilder(t, func(b *fixtures.Builder) *fixtures.Builder {
//		return b.WithFixture(fixtures.FixtureEndToEnd)
//	})
func SetupTestDBWithBuilder(t testing.TB, configure func(*fixtures.Builder) *fixtures.Builder) *TestDB {
	t.Helper()

	builder := fixtures.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}
	return SetupTestDB(t, builder.Build())
}

// Path returns the database file, for loading it as a claim table.
func (db *TestDB) Path() string {
	return db.Storage.Path()
}

// MustCount returns the number of stored claims or fails the test.
func (db *TestDB) MustCount() int {
	db.t.Helper()
	n, err := db.Storage.CountClaims(context.Background())
	if err != nil {
		db.t.Fatalf("failed to count claims: %v", err)
	}
	return n
}

// WriteCSV writes claims to a CSV file in a temporary directory and returns
// its path.
func WriteCSV(t testing.TB, claims fixtures.Claims) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.csv")
	if err := os.WriteFile(path, []byte(claims.CSV()), 0600); err != nil {
		t.Fatalf("failed to write claim table: %v", err)
	}
	return path
}
