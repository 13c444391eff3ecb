package storage

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Veraticus/claimmap/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{name: "valid string", str: "claims.db", wantErr: false},
		{name: "empty string", str: "", wantErr: true},
		{name: "whitespace only", str: "  \t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "dbPath")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrEmptyString) {
				t.Errorf("validateString() error = %v, want ErrEmptyString", err)
			}
		})
	}
}

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		records []model.ClaimRecord
	}{
		{
			name:    "nil slice",
			records: nil,
			wantErr: ErrNilParameter,
		},
		{
			name:    "empty slice clears table",
			records: []model.ClaimRecord{},
		},
		{
			name:    "finite relevancy",
			records: []model.ClaimRecord{{Country: "US", Relevancy: 0.4}},
		},
		{
			name:    "NaN relevancy",
			records: []model.ClaimRecord{{Country: "US", Relevancy: math.NaN()}},
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "infinite relevancy",
			records: []model.ClaimRecord{{Country: "US"}, {Country: "FR", Relevancy: math.Inf(-1)}},
			wantErr: ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecords(tt.records)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateRecords() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateRecords() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
