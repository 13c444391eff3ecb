package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage holds a snapshot of a claim table in a SQLite database.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage opens (or creates) the snapshot database at dbPath.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Path returns the database location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// ReplaceClaims swaps the stored snapshot for records in one transaction.
// Row order is preserved so a reload yields the same store order.
func (s *SQLiteStorage) ReplaceClaims(ctx context.Context, records []model.ClaimRecord) error {
	return s.ReplaceClaimsWithProgress(ctx, records, nil)
}

// ReplaceClaimsWithProgress is ReplaceClaims with a callback invoked after
// each inserted row.
func (s *SQLiteStorage) ReplaceClaimsWithProgress(ctx context.Context, records []model.ClaimRecord, progress func(done int)) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM claims`); err != nil {
		return fmt.Errorf("failed to clear claims: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO claims (
			position, country, brand, product_name, touchpoint,
			x_category, claim_type, claim_text, relevancy
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		if _, err = stmt.ExecContext(ctx,
			i, r.Country, r.Brand, r.ProductName, r.Touchpoint,
			r.XCategory, r.ClaimType, r.ClaimText, r.Relevancy,
		); err != nil {
			return fmt.Errorf("failed to insert claim %d: %w", i, err)
		}
		if progress != nil {
			progress(i + 1)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit claims: %w", err)
	}

	common.LogInfo("Stored claim snapshot", common.Fields{
		"path":    s.dbPath,
		"records": len(records),
	})
	return nil
}

// LoadClaims returns every stored claim in its original order.
func (s *SQLiteStorage) LoadClaims(ctx context.Context) ([]model.ClaimRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT country, brand, product_name, touchpoint,
		       x_category, claim_type, claim_text, relevancy
		FROM claims
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ClaimRecord
	for rows.Next() {
		var r model.ClaimRecord
		if err := rows.Scan(
			&r.Country, &r.Brand, &r.ProductName, &r.Touchpoint,
			&r.XCategory, &r.ClaimType, &r.ClaimText, &r.Relevancy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claims: %w", err)
	}

	return records, nil
}

// CountClaims returns the number of stored claims.
func (s *SQLiteStorage) CountClaims(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count claims: %w", err)
	}
	return count, nil
}
