package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/engine"
)

// ReportWriter publishes an engine result somewhere.
type ReportWriter interface {
	Write(ctx context.Context, result engine.Result, summary engine.Summary) (string, error)
}

// Writer implements ReportWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	now     func() time.Time
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Write replaces the sheet contents with the result and returns the
// spreadsheet ID.
func (w *Writer) Write(ctx context.Context, result engine.Result, summary engine.Summary) (string, error) {
	if result.IsEmpty() {
		return "", common.ErrNothingToPublish
	}

	w.logger.Info("starting claim map publication",
		"country", result.Criteria.Country,
		"products", len(result.Projection.Products),
		"claims", summary.Total)

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return "", fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := PrepareRows(result, summary, w.generatedAt())

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.2,
		Operation:    "write claim rows",
	}

	err = common.WithRetry(ctx, func() error {
		return classifyAPIError(w.writeData(ctx, spreadsheetID, values))
	}, retryOpts)
	if err != nil {
		return "", fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		retryOpts.Operation = "format claim sheet"
		err = common.WithRetry(ctx, func() error {
			return classifyAPIError(w.applyFormatting(ctx, spreadsheetID, len(values)))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("claim map publication completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return spreadsheetID, nil
}

// classifyAPIError maps Sheets API failures onto the retry policy: quota
// errors back off fully, other client errors are not retried.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return common.Permanent(err)
	default:
		return err
	}
}

func (w *Writer) generatedAt() time.Time {
	now := w.now()
	if loc, err := time.LoadLocation(w.config.TimeZone); err == nil {
		return now.In(loc)
	}
	return now
}

// tokenSource authenticates with the service account key when one is
// configured and with the stored OAuth2 refresh token otherwise.
func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.ServiceAccountPath == "" {
		token := &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}
		return oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token), nil
	}

	key, err := os.ReadFile(config.ServiceAccountPath)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	jwt, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return jwt.TokenSource(ctx), nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}
	return sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: w.config.SheetTitle,
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the first sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes the rows in batches to stay under API request limits.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i, batch := range batchRows(values, w.config.BatchSize) {
		start := i*w.config.BatchSize + 1
		valueRange := &sheets.ValueRange{
			Values: batch,
		}

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("A%d", start), valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", start, err)
		}

		w.logger.Debug("wrote batch", "start_row", start, "rows", len(batch))
	}

	return nil
}

// batchRows splits rows into consecutive chunks of at most size rows.
func batchRows(values [][]any, size int) [][][]any {
	if size <= 0 {
		size = len(values)
	}
	var batches [][][]any
	for i := 0; i < len(values); i += size {
		end := min(i+size, len(values))
		batches = append(batches, values[i:end])
	}
	return batches
}

// repeatFormat applies format to every cell in the given row and column
// span of the first sheet. fields names the format properties to set.
func repeatFormat(rows, cols [2]int64, format *sheets.CellFormat, fields string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				StartRowIndex:    rows[0],
				EndRowIndex:      rows[1],
				StartColumnIndex: cols[0],
				EndColumnIndex:   cols[1],
			},
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	}
}

// formattingRequests styles a written sheet: a large bold title, bold
// section labels, two-decimal relevancy and marker columns, fitted column
// widths and a frozen title row.
func formattingRequests(totalRows int) []*sheets.Request {
	end := int64(totalRows)
	const textFields, numberFields = "userEnteredFormat.textFormat", "userEnteredFormat.numberFormat"

	return []*sheets.Request{
		repeatFormat([2]int64{0, 1}, [2]int64{0, 2},
			&sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true, FontSize: 16}}, textFields),
		repeatFormat([2]int64{2, end}, [2]int64{0, 1},
			&sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true}}, textFields),
		repeatFormat([2]int64{0, end}, [2]int64{4, 6},
			&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: "0.00"}}, numberFields),
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					Dimension: "COLUMNS",
					EndIndex:  int64(len(DetailHeader)),
				},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, totalRows int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: formattingRequests(totalRows)}
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}
