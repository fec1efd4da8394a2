// Package csvfile reads the ODF fire occurrence export.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("missing required columns")

// RequiredColumns must appear in the header for a load to proceed.
var RequiredColumns = []string{
	"FireYear", "Area", "DistrictName", "FireName", "Size_class", "EstTotalAcres",
	"HumanOrLightning", "CauseBy", "GeneralCause", "Lat_DD", "Long_DD",
}

// Reader loads fire records from a CSV file.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the CSV at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Path returns the file the reader loads from.
func (r *Reader) Path() string { return r.path }

// Load reads and parses every row. Any malformed row fails the whole load.
func (r *Reader) Load() ([]domain.FireRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open fire data: %w", err)
	}
	defer f.Close()

	raws, err := ReadRaw(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	records := make([]domain.FireRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := domain.ParseRawRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", r.path, err)
		}
		records = append(records, rec)
	}

	r.logger.Info("fire data loaded", "path", r.path, "records", len(records))
	return records, nil
}

// ReadRaw reads a CSV stream into raw records keyed by the retained columns.
// Dropped columns are skipped; the coordinate columns keep their source names
// here and are exposed as Latitude/Longitude on the parsed record.
func ReadRaw(src io.Reader) ([]domain.RawFireRecord, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: %w", ErrMissingColumns)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if slices.Contains(domain.DroppedColumns, h) {
			continue
		}
		idx[h] = i
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var out []domain.RawFireRecord
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(row) {
			continue
		}

		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		out = append(out, domain.RawFireRecord{
			Line:          line,
			FireYear:      get("FireYear"),
			Area:          get("Area"),
			DistrictName:  get("DistrictName"),
			UnitName:      get("UnitName"),
			FireName:      get("FireName"),
			SizeClass:     get("Size_class"),
			EstTotalAcres: get("EstTotalAcres"),
			Cause:         get("HumanOrLightning"),
			CauseBy:       get("CauseBy"),
			GeneralCause:  get("GeneralCause"),
			SpecificCause: get("SpecificCause"),
			Latitude:      get("Lat_DD"),
			Longitude:     get("Long_DD"),
			County:        get("County"),
		})
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
