// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strconv"
)

// Field names a column of the claim table.
type Field string

// Claim table columns, in canonical header order.
const (
	FieldCountry     Field = "country"
	FieldBrand       Field = "brand"
	FieldProductName Field = "product_name"
	FieldTouchpoint  Field = "touchpoint"
	FieldXCategory   Field = "x_category"
	FieldClaimType   Field = "claim_type"
	FieldClaimText   Field = "claim_text"
	FieldRelevancy   Field = "relevancy"
)

// Fields lists every column the claim table must carry.
var Fields = []Field{
	FieldCountry,
	FieldBrand,
	FieldProductName,
	FieldTouchpoint,
	FieldXCategory,
	FieldClaimType,
	FieldClaimText,
	FieldRelevancy,
}

// ParseField converts a column name into a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// ClaimRecord is one row of the claim table.
type ClaimRecord struct {
	Country     string
	Brand       string
	ProductName string
	Touchpoint  string
	XCategory   string // Substantive basis of the claim (science, emotion, ...)
	ClaimType   string // Rhetorical form (statement, imagery, comparative/superiority)
	ClaimText   string
	Relevancy   float64 // Visual weight only; arbitrary positive scale
}

// Value returns the string form of the given field.
func (r ClaimRecord) Value(f Field) string {
	switch f {
	case FieldCountry:
		return r.Country
	case FieldBrand:
		return r.Brand
	case FieldProductName:
		return r.ProductName
	case FieldTouchpoint:
		return r.Touchpoint
	case FieldXCategory:
		return r.XCategory
	case FieldClaimType:
		return r.ClaimType
	case FieldClaimText:
		return r.ClaimText
	case FieldRelevancy:
		return strconv.FormatFloat(r.Relevancy, 'f', -1, 64)
	default:
		return ""
	}
}
