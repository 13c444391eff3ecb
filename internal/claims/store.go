// Package claims holds the immutable claim table loaded at startup.
package claims

import (
	"sort"

	"github.com/Veraticus/claimmap/internal/model"
)

// Store is the read-only set of claim records. It is safe to share across
// goroutines because nothing mutates it after construction.
type Store struct {
	source  string
	records []model.ClaimRecord
}

// NewStore wraps records that are already in memory. The slice is copied.
func NewStore(source string, records []model.ClaimRecord) *Store {
	cp := make([]model.ClaimRecord, len(records))
	copy(cp, records)
	return &Store{source: source, records: cp}
}

// Source describes where the records were loaded from.
func (s *Store) Source() string {
	return s.source
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of every record, in load order.
func (s *Store) Records() []model.ClaimRecord {
	out := make([]model.ClaimRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Each calls fn for every record in load order without copying the table.
func (s *Store) Each(fn func(model.ClaimRecord)) {
	for _, r := range s.records {
		fn(r)
	}
}

// DistinctValues returns the sorted distinct values of a field.
func (s *Store) DistinctValues(field model.Field) []string {
	return s.DistinctValuesWhere(field, nil)
}

// DistinctValuesWhere returns the sorted distinct values of a field among
// the records accepted by keep. A nil keep accepts every record.
func (s *Store) DistinctValuesWhere(field model.Field, keep func(model.ClaimRecord) bool) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range s.records {
		if keep != nil && !keep(r) {
			continue
		}
		v := r.Value(field)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
