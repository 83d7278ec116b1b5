// Package usecase implements CSV normalization and store seeding.
//
// Source files come from heterogeneous mandi exports whose column names and
// date formats differ per publisher, so the schema is reconciled through a
// declarative alias table rather than per-file code.
package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"agripivot_backend/internal/feature/prices/domain/entity"
)

// PriceWriter abstracts the write side of the historical price store.
// Following Go convention, the interface is defined by the consumer (usecase).
type PriceWriter interface {
	InsertBatch(ctx context.Context, obs []entity.PriceObservation) error
}

// Canonical field names used by the alias table.
const (
	fieldDate      = "date"
	fieldPrice     = "price"
	fieldMarket    = "market"
	fieldCommodity = "commodity"
)

// columnAliases maps each canonical field to its accepted header spellings,
// in priority order. Headers are trimmed before matching; first alias wins.
var columnAliases = map[string][]string{
	fieldDate:      {"Price Date", "Date", "date"},
	fieldPrice:     {"Modal Price", "Price", "price"},
	fieldMarket:    {"Market", "Mandi", "mandi", "State"},
	fieldCommodity: {"Commodity", "commodity"},
}

// dateLayouts are tried in order; the first success is normalized to the
// canonical layout. A date matching none of them is stored raw, which may
// break chronological sort for that row (accepted limitation).
var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

// Report counts per-row outcomes of one file so drops are observable instead
// of silently discarded.
type Report struct {
	Inserted        int // rows written to the store
	SkippedMissing  int // rows lacking date, price, or commodity
	SkippedBadPrice int // rows whose price field is not numeric
}

// SeedUsecase parses a CSV export and writes the validated rows in one batch.
type SeedUsecase struct {
	prices PriceWriter
}

func NewSeedUsecase(prices PriceWriter) *SeedUsecase {
	return &SeedUsecase{prices: prices}
}

// PickDataFile returns the primary dataset if it exists, else the sample
// dataset, else ok=false meaning there is no data source.
func PickDataFile(primary, sample string) (string, bool) {
	if _, err := os.Stat(primary); err == nil {
		return primary, true
	}
	if _, err := os.Stat(sample); err == nil {
		slog.Info("primary dataset missing, using sample dataset", "path", sample)
		return sample, true
	}
	return "", false
}

// SeedFromCSV normalizes the file at path and appends the valid rows to the
// store in a single batch. Row-level failures are counted, never fatal; an
// unreadable file or failed batch write is returned as an error.
func (su *SeedUsecase) SeedFromCSV(ctx context.Context, path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, report, err := normalize(f)
	if err != nil {
		return report, fmt.Errorf("read dataset %s: %w", path, err)
	}

	if len(rows) == 0 {
		slog.Info("nothing to insert", "path", path,
			"skipped_missing", report.SkippedMissing, "skipped_bad_price", report.SkippedBadPrice)
		return report, nil
	}

	if err := su.prices.InsertBatch(ctx, rows); err != nil {
		return report, fmt.Errorf("insert batch: %w", err)
	}
	report.Inserted = len(rows)
	return report, nil
}

// normalize reconciles the file's headers against the alias table once, then
// converts each record, dropping incomplete or non-numeric rows.
func normalize(src io.Reader) ([]entity.PriceObservation, Report, error) {
	var report Report

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1 // ragged exports are common; validate per row instead

	header, err := r.Read()
	if err != nil {
		return nil, report, fmt.Errorf("read header: %w", err)
	}
	cols := resolveColumns(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, report, err
	}

	rows := make([]entity.PriceObservation, 0, len(records))
	for _, rec := range records {
		dateStr := fieldValue(rec, cols[fieldDate])
		priceStr := fieldValue(rec, cols[fieldPrice])
		commodity := fieldValue(rec, cols[fieldCommodity])
		market := fieldValue(rec, cols[fieldMarket])

		if dateStr == "" || priceStr == "" || commodity == "" {
			report.SkippedMissing++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			report.SkippedBadPrice++
			continue
		}

		rows = append(rows, entity.PriceObservation{
			Date:          normalizeDate(dateStr),
			Market:        market,
			Commodity:     commodity,
			Price:         price,
			TransportCost: 0,
		})
	}
	return rows, report, nil
}

// resolveColumns maps each canonical field to a column index, or -1 when no
// alias appears in the header.
func resolveColumns(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	cols := make(map[string]int, len(columnAliases))
	for field, aliases := range columnAliases {
		cols[field] = -1
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

func fieldValue(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// normalizeDate converts a source date to "2006-01-02" when one of the known
// layouts matches, otherwise returns the input unchanged.
func normalizeDate(s string) string {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return s
}
