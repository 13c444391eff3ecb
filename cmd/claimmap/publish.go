package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/claimmap/internal/cli"
	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/config"
	"github.com/Veraticus/claimmap/internal/engine"
	"github.com/Veraticus/claimmap/internal/model"
	"github.com/Veraticus/claimmap/internal/sheets"
)

func publishCmd() *cobra.Command {
	var flags competeFlags

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a competitor claim map to Google Sheets",
		Long: `Write the competitor claim map of the selected products to a Google
Sheets spreadsheet: the filter summary, counts per product, claim basis and
claim type, and one row per claim.

Authenticate once with 'claimmap publish auth', or configure a service
account with sheets.service_account_path.`,
		Example: `  claimmap publish --country US --product "Hydra Serum" --product "Glow Cream"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}

			c := competitorCriteria(flags.country, flags.products, flags.touchpoints, cmd.Flags().Changed("touchpoint"))
			if len(c.Products) == 0 {
				return &common.InvalidCriteriaError{Field: "product"}
			}

			sheetsConfig, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				if notice := common.Notice(err); notice != "" {
					return common.NewUserError(notice+" Run 'claimmap publish auth' first.", err)
				}
				return err
			}

			handler := cli.NewInterruptHandler(cmd.OutOrStdout(), "Publish")
			ctx := handler.HandleInterrupts(cmd.Context(), "The spreadsheet may be partially written.")
			defer handler.Stop()

			writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create sheets writer: %w", err)
			}

			return runPublish(ctx, cmd.OutOrStdout(), s.engine, writer, c)
		},
	}

	cmd.Flags().StringVar(&flags.country, "country", "", "country (required)")
	cmd.Flags().StringArrayVar(&flags.products, "product", nil, "product to compare (repeatable, required)")
	cmd.Flags().StringArrayVar(&flags.touchpoints, "touchpoint", nil, "touchpoint to include (repeatable, default all)")

	cmd.AddCommand(publishAuthCmd())

	return cmd
}

func runPublish(ctx context.Context, w io.Writer, eng *engine.Engine, writer sheets.ReportWriter, c model.FilterCriteria) error {
	result, err := eng.Run(c)
	if err != nil {
		return err
	}
	summary := eng.Summary(result)

	spreadsheetID, err := writer.Write(ctx, result, summary)
	if err != nil {
		if errors.Is(err, common.ErrNothingToPublish) {
			fmt.Fprintln(w, cli.FormatWarning("No claims match the selected filters; nothing was published."))
			return nil
		}
		return fmt.Errorf("failed to publish claim map: %w", err)
	}

	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Published %s", summary.StatusLine())))
	fmt.Fprintf(w, "https://docs.google.com/spreadsheets/d/%s\n", spreadsheetID)
	return nil
}

func publishAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Open your browser to authenticate with Google
2. Save the refresh token for future use
3. Update your config file with the token

You'll need to run this once before publishing with OAuth2.`,
		RunE: runPublishAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", sheets.DefaultCallbackAddr, "address of the local OAuth2 callback server")

	return cmd
}

func runPublishAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	clientID := viper.GetString(config.KeySheetsClientID)
	clientSecret := viper.GetString(config.KeySheetsClientSecret)

	// Override with flags if provided
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	// Check for environment variables as fallback
	if clientID == "" {
		clientID = os.Getenv(sheets.EnvClientID)
	}
	if clientSecret == "" {
		clientSecret = os.Getenv(sheets.EnvClientSecret)
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
	}

	tokenFile := config.ExpandPath(viper.GetString(config.KeySheetsTokenFile))
	if tokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		tokenFile = filepath.Join(home, ".config", "claimmap", "sheets-token.json")
	}
	callback, _ := cmd.Flags().GetString("callback")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	token, err := sheets.AuthenticateOAuth2Interactive(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
	}, func(authURL string) {
		fmt.Fprintln(out, cli.FormatInfo("Opening your browser to authorize claimmap."))
		fmt.Fprintln(out, "If it does not open, visit:")
		fmt.Fprintln(out, authURL)
		openBrowser(authURL)
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	// Update config file with refresh token
	viper.Set(config.KeySheetsRefreshToken, token.RefreshToken)
	viper.Set(config.KeySheetsTokenFile, tokenFile)

	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		fmt.Fprintln(out, cli.FormatWarning("Could not save the refresh token to the config file."))
		fmt.Fprintf(out, "It was saved to %s and will be read from there.\n", tokenFile)
	} else {
		fmt.Fprintln(out, cli.FormatSuccess("Authentication successful!"))
	}

	fmt.Fprintln(out, "Run 'claimmap publish' to write claim maps to Google Sheets.")
	return nil
}

// saveConfig writes the current viper settings back to the config file.
func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(home, ".config", "claimmap", "config.yaml")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch goos := runtime.GOOS; goos {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec,forbidigo
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec,forbidigo
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec,forbidigo
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
