// Package storage keeps SQLite snapshots of claim tables.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/claimmap/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidRecord = errors.New("invalid claim record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecords checks the records before they replace a snapshot.
// An empty, non-nil slice is allowed and clears the table.
func validateRecords(records []model.ClaimRecord) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}
	for i, r := range records {
		if math.IsNaN(r.Relevancy) || math.IsInf(r.Relevancy, 0) {
			return fmt.Errorf("%w: record %d: relevancy is not a finite number", ErrInvalidRecord, i)
		}
	}
	return nil
}
