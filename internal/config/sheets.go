package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/claimmap/internal/sheets"
)

// Sheets configuration keys.
const (
	KeySheetsServiceAccount = "sheets.service_account_path"
	KeySheetsClientID       = "sheets.client_id"
	KeySheetsClientSecret   = "sheets.client_secret"
	KeySheetsRefreshToken   = "sheets.refresh_token"
	KeySheetsTokenFile      = "sheets.token_file"
	KeySheetsSpreadsheetID  = "sheets.spreadsheet_id"
	KeySheetsName           = "sheets.spreadsheet_name"
)

// LoadSheetsConfig builds the publisher configuration. Values set in v win
// over GOOGLE_SHEETS_* variables, which win over the defaults. Without a
// refresh token, one saved by 'publish auth' in the token file is used.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()
	config.ApplyEnv(os.Getenv)

	override := func(dst *string, key string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	override(&config.ServiceAccountPath, KeySheetsServiceAccount)
	override(&config.ClientID, KeySheetsClientID)
	override(&config.ClientSecret, KeySheetsClientSecret)
	override(&config.RefreshToken, KeySheetsRefreshToken)
	override(&config.TokenFile, KeySheetsTokenFile)
	override(&config.SpreadsheetID, KeySheetsSpreadsheetID)
	override(&config.SpreadsheetName, KeySheetsName)

	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)
	config.TokenFile = ExpandPath(config.TokenFile)

	if n := v.GetInt(KeySheetsBatch); n > 0 {
		config.BatchSize = n
	}
	if v.IsSet(KeySheetsAttempts) {
		config.RetryAttempts = v.GetInt(KeySheetsAttempts)
	}

	if config.RefreshToken == "" && config.TokenFile != "" && config.ServiceAccountPath == "" {
		if token, err := sheets.LoadToken(config.TokenFile); err == nil {
			config.RefreshToken = token.RefreshToken
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
