package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/claimmap/internal/model"
	"github.com/Veraticus/claimmap/internal/tui"
	"github.com/Veraticus/claimmap/internal/tui/themes"
)

type dashboardFlags struct {
	view     string
	country  string
	brand    string
	theme    string
	products []string
}

func dashboardCmd() *cobra.Command {
	var flags dashboardFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Explore the claim table interactively",
		Long: `Open the terminal dashboard.

The product mapping view shows the reference image of one product. The
competitor view draws the claims of several products on the claim map;
press e there to export it as a PNG. Logs are written to logging.file while
the dashboard runs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}

			initial, err := flags.criteria()
			if err != nil {
				return err
			}

			opts := []tui.Option{
				tui.WithEngine(s.engine),
				tui.WithAssets(newAssets(s.settings)),
				tui.WithSource(s.store.Source()),
				tui.WithInitialCriteria(initial),
				tui.WithTheme(themes.GetTheme(flags.theme)),
			}
			if exporter, err := newExporter(s.settings); err != nil {
				slog.Warn("Chart export disabled", "error", err)
			} else {
				opts = append(opts, tui.WithExporter(exporter, s.settings.Export.Path))
			}

			closeLog := redirectLogs(s.settings.Logging.File)
			defer closeLog()

			return tui.Run(cmd.Context(), opts...)
		},
	}

	cmd.Flags().StringVar(&flags.view, "view", string(model.ViewProductMapping), "initial view (product-mapping, competitor)")
	cmd.Flags().StringVar(&flags.country, "country", "", "preselected country")
	cmd.Flags().StringVar(&flags.brand, "brand", "", "preselected brand (product-mapping view)")
	cmd.Flags().StringArrayVar(&flags.products, "product", nil, "preselected product (repeatable in the competitor view)")
	cmd.Flags().StringVar(&flags.theme, "theme", "default", "color theme (default, catppuccin-mocha)")

	return cmd
}

func (f dashboardFlags) criteria() (model.FilterCriteria, error) {
	view, err := model.ParseView(f.view)
	if err != nil {
		return model.FilterCriteria{}, err
	}
	if view == model.ViewCompetitor {
		return model.NewCompetitorCriteria(f.country, f.products, nil), nil
	}

	var product string
	if len(f.products) > 0 {
		product = f.products[0]
	}
	return model.NewProductCriteria(f.country, f.brand, product), nil
}

// redirectLogs sends logs to path so they do not draw over the dashboard.
// The returned function restores logging to stderr.
func redirectLogs(path string) func() {
	if path == "" {
		return func() {}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		slog.Warn("Failed to create log directory", "error", err)
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 -- configured log file
	if err != nil {
		slog.Warn("Failed to open log file", "path", path, "error", err)
		return func() {}
	}

	if err := setupLogging(f); err != nil {
		_ = f.Close()
		slog.Warn("Failed to redirect logs", "error", err)
		return func() {}
	}

	return func() {
		if err := setupLogging(os.Stderr); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		_ = f.Close()
	}
}
