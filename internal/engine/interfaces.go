package engine

import "github.com/Veraticus/claimmap/internal/model"

// ClaimSource is the read-only claim table the engine filters.
// *claims.Store satisfies it.
type ClaimSource interface {
	Each(fn func(model.ClaimRecord))
	DistinctValues(field model.Field) []string
	DistinctValuesWhere(field model.Field, keep func(model.ClaimRecord) bool) []string
}

// RandSource supplies the uniform values used for vertical jitter.
type RandSource interface {
	Float64() float64
}
