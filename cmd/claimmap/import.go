package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/claimmap/internal/cli"
	"github.com/Veraticus/claimmap/internal/config"
	"github.com/Veraticus/claimmap/internal/storage"
)

func importCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <claims.csv>",
		Short: "Snapshot a claim table into SQLite",
		Long: `Validate a delimited claim table and store it in a SQLite database.

The snapshot replaces whatever the database held before. Point --data (or
data.path) at the database file to use it as the claim table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if dbPath == "" {
				dbPath = settings.Database.Path
			}

			handler := cli.NewInterruptHandler(cmd.OutOrStdout(), "Import")
			ctx := handler.HandleInterrupts(cmd.Context(), "The previous snapshot was kept.")
			defer handler.Stop()

			return runImport(ctx, cmd.OutOrStdout(), args[0], config.ExpandPath(dbPath))
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "snapshot database (default: database.path)")

	return cmd
}

func runImport(ctx context.Context, w io.Writer, source, dbPath string) error {
	store, err := loadStore(ctx, source)
	if err != nil {
		return err
	}

	db, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	bar := progressbar.NewOptions(store.Len(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing claims...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	err = db.ReplaceClaimsWithProgress(ctx, store.Records(), func(done int) {
		_ = bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("failed to store claims: %w", err)
	}

	count, err := db.CountClaims(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Imported %d claims into %s", count, db.Path())))
	return nil
}
