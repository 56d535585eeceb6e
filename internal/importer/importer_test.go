package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"milstore/internal/domain"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubRateWriter struct {
	rates []domain.ShippingRate
	err   error
}

func (s *stubRateWriter) Upsert(_ context.Context, rate domain.ShippingRate) (*domain.ShippingRate, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.rates = append(s.rates, rate)
	return &rate, nil
}

const rateCSV = `name,min_desi,max_desi,cost,free_threshold,sort_order,active,is_default
Standart Kargo,0,5,49.90,5000,10,true,true
Orta Boy Kargo,5,10,89.90,5000,20,true,false
Buyuk Kargo,10,,199.90,,30,1,0
`

func TestRunImportsTiers(t *testing.T) {
	writer := &stubRateWriter{}
	imp := NewCSVImporter(strings.NewReader(rateCSV), writer)

	n, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 imported, got %d", n)
	}

	first := writer.rates[0]
	if first.Name != "Standart Kargo" || !first.Cost.Equal(dec("49.90")) {
		t.Errorf("unexpected first tier %+v", first)
	}
	if first.FreeThreshold == nil || !first.FreeThreshold.Equal(dec("5000")) {
		t.Errorf("expected free threshold 5000, got %v", first.FreeThreshold)
	}
	if !first.IsDefault {
		t.Error("expected first tier to be default")
	}

	top := writer.rates[2]
	if top.MaxDesi != nil {
		t.Errorf("expected unbounded top tier, got max %v", top.MaxDesi)
	}
	if top.FreeThreshold != nil {
		t.Errorf("expected no free threshold on top tier, got %v", top.FreeThreshold)
	}
	if !top.Active || top.IsDefault {
		t.Errorf("expected active=1 is_default=0, got %+v", top)
	}
	if top.SortOrder != 30 {
		t.Errorf("expected sort order 30, got %d", top.SortOrder)
	}
}

func TestRunSkipsNamelessRows(t *testing.T) {
	csv := "name,min_desi,cost\nA,0,10\n,5,20\nB,5,30\n"
	writer := &stubRateWriter{}
	imp := NewCSVImporter(strings.NewReader(csv), writer)

	n, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported, got %d", n)
	}
	if writer.rates[1].Name != "B" {
		t.Fatalf("expected B second, got %q", writer.rates[1].Name)
	}
}

func TestRunRejectsBadNumbers(t *testing.T) {
	csv := "name,min_desi,cost\nA,zero,10\n"
	imp := NewCSVImporter(strings.NewReader(csv), &stubRateWriter{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for non-numeric min_desi")
	}
}

func TestRunMissingCost(t *testing.T) {
	csv := "name,min_desi,cost\nA,0,\n"
	imp := NewCSVImporter(strings.NewReader(csv), &stubRateWriter{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing cost")
	}
}

func TestRunWriterFailureStops(t *testing.T) {
	csv := "name,min_desi,cost\nA,0,10\nB,5,20\n"
	writer := &stubRateWriter{err: errors.New("db down")}
	imp := NewCSVImporter(strings.NewReader(csv), writer)

	n, err := imp.Run(context.Background())
	if err == nil {
		t.Fatal("expected writer error")
	}
	if n != 0 {
		t.Fatalf("expected 0 imported, got %d", n)
	}
}
