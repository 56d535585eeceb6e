package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"milstore/internal/domain"

	"github.com/shopspring/decimal"
)

type RateWriter interface {
	Upsert(ctx context.Context, rate domain.ShippingRate) (*domain.ShippingRate, error)
}

// CSVImporter reads carrier rate-table exports and inserts/updates
// shipping rate tiers.
type CSVImporter struct {
	reader   *csv.Reader
	rateRepo RateWriter
}

func NewCSVImporter(r io.Reader, repo RateWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		rateRepo: repo,
	}
}

// Run parses CSV rows and upserts rate tiers keyed by name.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		rate, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if rate == nil {
			continue
		}
		if _, err := i.rateRepo.Upsert(ctx, *rate); err != nil {
			return imported, fmt.Errorf("upsert rate %q: %w", rate.Name, err)
		}
		imported++
	}
	return imported, nil
}

func parseRow(record []string, index map[string]int) (*domain.ShippingRate, error) {
	name := pick(record, index, "name")
	if name == "" {
		return nil, nil
	}

	minDesi, err := pickDecimal(record, index, "min_desi")
	if err != nil {
		return nil, fmt.Errorf("rate %q: %w", name, err)
	}
	cost, err := pickDecimal(record, index, "cost")
	if err != nil {
		return nil, fmt.Errorf("rate %q: %w", name, err)
	}

	rate := domain.ShippingRate{
		Name:    name,
		MinDesi: minDesi,
		Cost:    cost,
		Active:  true,
	}

	if raw := pick(record, index, "max_desi"); raw != "" {
		maxDesi, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("rate %q: invalid max_desi %q", name, raw)
		}
		rate.MaxDesi = &maxDesi
	}
	if raw := pick(record, index, "free_threshold"); raw != "" {
		threshold, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("rate %q: invalid free_threshold %q", name, raw)
		}
		rate.FreeThreshold = &threshold
	}
	if raw := pick(record, index, "sort_order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("rate %q: invalid sort_order %q", name, raw)
		}
		rate.SortOrder = order
	}
	if raw := pick(record, index, "active"); raw != "" {
		rate.Active = strings.EqualFold(raw, "true") || raw == "1"
	}
	if raw := pick(record, index, "is_default"); raw != "" {
		rate.IsDefault = strings.EqualFold(raw, "true") || raw == "1"
	}
	return &rate, nil
}

func pickDecimal(record []string, index map[string]int, key string) (decimal.Decimal, error) {
	raw := pick(record, index, key)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("missing %s", key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
