package claims

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
)

// RecordSource supplies already-parsed records, e.g. a SQLite snapshot.
type RecordSource interface {
	LoadClaims(ctx context.Context) ([]model.ClaimRecord, error)
}

// LoadOptions tunes parsing of delimited input.
type LoadOptions struct {
	Comma rune
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load parses a delimited claim table. The header row must name every
// column in model.Fields; extra columns are ignored.
func Load(r io.Reader, source string) (*Store, error) {
	return LoadWithOptions(r, source, LoadOptions{Comma: ','})
}

// LoadWithOptions is Load with a configurable delimiter.
func LoadWithOptions(r io.Reader, source string, opts LoadOptions) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &common.DataFormatError{Source: source, Missing: fieldNames(model.Fields)}
	}
	if err != nil {
		return nil, &common.DataFormatError{Source: source, Reason: err.Error()}
	}

	columns, err := indexColumns(header, source)
	if err != nil {
		return nil, err
	}

	var records []model.ClaimRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &common.DataFormatError{Source: source, Line: parseErr.Line, Reason: parseErr.Err.Error()}
			}
			return nil, &common.DataFormatError{Source: source, Reason: err.Error()}
		}
		if isBlank(row) {
			continue
		}

		line, _ := reader.FieldPos(0)
		rec, err := parseRow(row, columns, source, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	common.LogDebug("Loaded claim table", common.Fields{"source": source, "records": len(records)})
	return &Store{source: source, records: records}, nil
}

// LoadFile loads the claim table from a path. Files ending in .db, .sqlite
// or .sqlite3 are read through open; everything else is parsed as delimited
// text (tab-separated for .tsv).
func LoadFile(ctx context.Context, path string, open func(path string) (RecordSource, io.Closer, error)) (*Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		if open == nil {
			return nil, fmt.Errorf("no database reader configured for %s", path)
		}
		src, closer, err := open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = closer.Close() }()

		records, err := src.LoadClaims(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read claims from %s: %w", path, err)
		}
		return NewStore(path, records), nil
	}

	f, err := os.Open(path) // #nosec G304 -- user-selected input file
	if err != nil {
		return nil, fmt.Errorf("failed to open claim table: %w", err)
	}
	defer func() { _ = f.Close() }()

	opts := LoadOptions{Comma: ','}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		opts.Comma = '\t'
	}
	return LoadWithOptions(f, path, opts)
}

// indexColumns maps every required field onto its header position.
func indexColumns(header []string, source string) (map[model.Field]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := model.NormalizeLabel(h)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	columns := make(map[model.Field]int, len(model.Fields))
	var missing []string
	for _, f := range model.Fields {
		i, ok := positions[string(f)]
		if !ok {
			missing = append(missing, string(f))
			continue
		}
		columns[f] = i
	}
	if len(missing) > 0 {
		return nil, &common.DataFormatError{Source: source, Missing: missing}
	}
	return columns, nil
}

func parseRow(row []string, columns map[model.Field]int, source string, line int) (model.ClaimRecord, error) {
	get := func(f model.Field) string {
		i := columns[f]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	raw := get(model.FieldRelevancy)
	relevancy, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(relevancy) || math.IsInf(relevancy, 0) {
		return model.ClaimRecord{}, &common.DataFormatError{
			Source: source,
			Line:   line,
			Column: string(model.FieldRelevancy),
			Reason: "not a finite number",
			Value:  raw,
		}
	}

	return model.ClaimRecord{
		Country:     get(model.FieldCountry),
		Brand:       get(model.FieldBrand),
		ProductName: get(model.FieldProductName),
		Touchpoint:  get(model.FieldTouchpoint),
		XCategory:   get(model.FieldXCategory),
		ClaimType:   get(model.FieldClaimType),
		ClaimText:   get(model.FieldClaimText),
		Relevancy:   relevancy,
	}, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func fieldNames(fields []model.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
