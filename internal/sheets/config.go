// Package sheets publishes claim map results to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/claimmap/internal/common"
)

// Environment variables read by ApplyEnv.
const (
	EnvClientID        = "GOOGLE_SHEETS_CLIENT_ID"
	EnvClientSecret    = "GOOGLE_SHEETS_CLIENT_SECRET"
	EnvRefreshToken    = "GOOGLE_SHEETS_REFRESH_TOKEN"
	EnvTokenFile       = "GOOGLE_SHEETS_TOKEN_FILE"
	EnvServiceAccount  = "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"
	EnvSpreadsheetID   = "GOOGLE_SHEETS_SPREADSHEET_ID"
	EnvSpreadsheetName = "GOOGLE_SHEETS_SPREADSHEET_NAME"
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	SheetTitle         string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns the publishing defaults. No credentials are set.
func DefaultConfig() Config {
	return Config{
		EnableFormatting: true,
		SpreadsheetName:  "Claim Map",
		SheetTitle:       "Claims",
		TimeZone:         "UTC",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// ApplyEnv fills credentials and the target spreadsheet from GOOGLE_SHEETS_*
// variables. Fields that already hold a value are kept, except the
// spreadsheet name, which the environment overrides.
func (c *Config) ApplyEnv(getenv func(string) string) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = getenv(key)
		}
	}
	fill(&c.ClientID, EnvClientID)
	fill(&c.ClientSecret, EnvClientSecret)
	fill(&c.RefreshToken, EnvRefreshToken)
	fill(&c.TokenFile, EnvTokenFile)
	fill(&c.ServiceAccountPath, EnvServiceAccount)
	fill(&c.SpreadsheetID, EnvSpreadsheetID)
	if name := getenv(EnvSpreadsheetName); name != "" {
		c.SpreadsheetName = name
	}
}

// HasOAuth reports whether complete OAuth2 credentials are present.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Validate checks the writer can authenticate and its limits make sense.
// Missing credentials wrap common.ErrPublishUnavailable so callers can
// show a notice; the remaining problems wrap common.ErrInvalidConfig.
func (c *Config) Validate() error {
	hasOAuth := c.HasOAuth()
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("%w: no authentication method configured", common.ErrPublishUnavailable)
	}

	var problems []error
	if hasOAuth && hasServiceAccount {
		problems = append(problems, errors.New("multiple authentication methods configured; use either OAuth2 or service account"))
	}
	if c.BatchSize <= 0 {
		problems = append(problems, errors.New("batch size must be positive"))
	}
	if c.RetryAttempts < 0 {
		problems = append(problems, errors.New("retry attempts cannot be negative"))
	}
	if c.RetryDelay < 0 {
		problems = append(problems, errors.New("retry delay cannot be negative"))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}
