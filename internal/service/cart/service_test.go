package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"milstore/internal/domain"
	"milstore/internal/repository/cartline"

	"github.com/shopspring/decimal"
)

type stubLineRepo struct {
	lines        []domain.CartLine
	listErr      error
	addLine      *domain.CartLine
	addErr       error
	lastAdd      cartline.AddInput
	updateLine   *domain.CartLine
	updateErr    error
	lastUpdateID int64
	lastUpdateQ  int
	deleteErr    error
	lastDeleteID int64
	clearErr     error
	clearCalled  bool
	summary      domain.CartSummary
	summaryErr   error
	contains     bool
	containsErr  error
	mergeErr     error
	lastMergeSID string
	lastMergeUID int64
}

func (s *stubLineRepo) ListByOwner(_ context.Context, _ domain.Owner) ([]domain.CartLine, error) {
	return s.lines, s.listErr
}

func (s *stubLineRepo) Add(_ context.Context, in cartline.AddInput) (*domain.CartLine, error) {
	s.lastAdd = in
	return s.addLine, s.addErr
}

func (s *stubLineRepo) UpdateQuantity(_ context.Context, _ domain.Owner, lineID int64, quantity int) (*domain.CartLine, error) {
	s.lastUpdateID = lineID
	s.lastUpdateQ = quantity
	return s.updateLine, s.updateErr
}

func (s *stubLineRepo) Delete(_ context.Context, _ domain.Owner, lineID int64) error {
	s.lastDeleteID = lineID
	return s.deleteErr
}

func (s *stubLineRepo) DeleteByOwner(_ context.Context, _ domain.Owner) error {
	s.clearCalled = true
	return s.clearErr
}

func (s *stubLineRepo) Summary(_ context.Context, _ domain.Owner) (domain.CartSummary, error) {
	return s.summary, s.summaryErr
}

func (s *stubLineRepo) ContainsProduct(_ context.Context, _ domain.Owner, _ int64, _ *int64) (bool, error) {
	return s.contains, s.containsErr
}

func (s *stubLineRepo) MergeInto(_ context.Context, sessionID string, userID int64) error {
	s.lastMergeSID = sessionID
	s.lastMergeUID = userID
	return s.mergeErr
}

type stubCatalog struct {
	product    *domain.Product
	productErr error
	variant    *domain.ProductVariant
	variantErr error
}

func (s *stubCatalog) GetByID(_ context.Context, _ int64) (*domain.Product, error) {
	return s.product, s.productErr
}

func (s *stubCatalog) GetVariant(_ context.Context, _ int64) (*domain.ProductVariant, error) {
	return s.variant, s.variantErr
}

type stubShipping struct {
	cost     decimal.Decimal
	rate     *domain.ShippingRate
	err      error
	lastDesi decimal.Decimal
	lastTot  decimal.Decimal
	called   bool
}

func (s *stubShipping) CalculateCost(_ context.Context, totalDesi, cartTotal decimal.Decimal) (decimal.Decimal, *domain.ShippingRate, error) {
	s.called = true
	s.lastDesi = totalDesi
	s.lastTot = cartTotal
	return s.cost, s.rate, s.err
}

func newTestService(lines *stubLineRepo, catalog *stubCatalog, shipping *stubShipping) *Service {
	return &Service{
		lines:    lines,
		catalog:  catalog,
		shipping: shipping,
		logger:   log.New(io.Discard, "", 0),
	}
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func int64Ptr(v int64) *int64 { return &v }

func activeProduct() *domain.Product {
	return &domain.Product{
		ID:            7,
		SKU:           "MS-TEST",
		Name:          "Test Product",
		Price:         dec("100"),
		Desi:          dec("2"),
		StockQuantity: 10,
		Active:        true,
	}
}

func TestListZeroOwner(t *testing.T) {
	svc := newTestService(&stubLineRepo{lines: []domain.CartLine{{ID: 1}}}, &stubCatalog{}, &stubShipping{})
	lines, err := svc.List(context.Background(), domain.Owner{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty list for zero owner, got %d lines", len(lines))
	}
}

func TestAddZeroOwner(t *testing.T) {
	svc := newTestService(&stubLineRepo{}, &stubCatalog{product: activeProduct()}, &stubShipping{})
	_, err := svc.Add(context.Background(), domain.Owner{}, 7, nil, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddQuantityValidation(t *testing.T) {
	svc := newTestService(&stubLineRepo{}, &stubCatalog{product: activeProduct()}, &stubShipping{})
	_, err := svc.Add(context.Background(), domain.UserOwner(1), 7, nil, 0)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddProductNotFound(t *testing.T) {
	svc := newTestService(&stubLineRepo{}, &stubCatalog{productErr: domain.ErrNotFound}, &stubShipping{})
	_, err := svc.Add(context.Background(), domain.UserOwner(1), 7, nil, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddInactiveProduct(t *testing.T) {
	p := activeProduct()
	p.Active = false
	svc := newTestService(&stubLineRepo{}, &stubCatalog{product: p}, &stubShipping{})
	_, err := svc.Add(context.Background(), domain.UserOwner(1), 7, nil, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestAddVariantWrongProduct(t *testing.T) {
	variant := &domain.ProductVariant{ID: 9, ProductID: 99, Active: true}
	svc := newTestService(&stubLineRepo{}, &stubCatalog{product: activeProduct(), variant: variant}, &stubShipping{})
	_, err := svc.Add(context.Background(), domain.UserOwner(1), 7, int64Ptr(9), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for foreign variant, got %v", err)
	}
}

func TestAddVariantInactive(t *testing.T) {
	variant := &domain.ProductVariant{ID: 9, ProductID: 7, Active: false}
	svc := newTestService(&stubLineRepo{}, &stubCatalog{product: activeProduct(), variant: variant}, &stubShipping{})
	_, err := svc.Add(context.Background(), domain.UserOwner(1), 7, int64Ptr(9), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for inactive variant, got %v", err)
	}
}

func TestAddSnapshotsProductPrice(t *testing.T) {
	repo := &stubLineRepo{addLine: &domain.CartLine{ID: 1, Quantity: 3}}
	svc := newTestService(repo, &stubCatalog{product: activeProduct()}, &stubShipping{})
	line, err := svc.Add(context.Background(), domain.UserOwner(1), 7, nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.ID != 1 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if !repo.lastAdd.UnitPrice.Equal(dec("100")) {
		t.Fatalf("expected snapshot price 100, got %s", repo.lastAdd.UnitPrice)
	}
	if repo.lastAdd.Quantity != 3 || repo.lastAdd.ProductID != 7 {
		t.Fatalf("add input not forwarded: %+v", repo.lastAdd)
	}
}

func TestAddSnapshotsVariantPriceDelta(t *testing.T) {
	variant := &domain.ProductVariant{ID: 9, ProductID: 7, PriceDelta: dec("25"), Active: true}
	repo := &stubLineRepo{addLine: &domain.CartLine{ID: 1}}
	svc := newTestService(repo, &stubCatalog{product: activeProduct(), variant: variant}, &stubShipping{})
	_, err := svc.Add(context.Background(), domain.UserOwner(1), 7, int64Ptr(9), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.lastAdd.UnitPrice.Equal(dec("125")) {
		t.Fatalf("expected variant price 125, got %s", repo.lastAdd.UnitPrice)
	}
}

func TestAddInsufficientStockPassedThrough(t *testing.T) {
	repo := &stubLineRepo{addErr: domain.ErrInsufficientStock}
	svc := newTestService(repo, &stubCatalog{product: activeProduct()}, &stubShipping{})
	_, err := svc.Add(context.Background(), domain.UserOwner(1), 7, nil, 5)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestUpdateQuantityZeroOwner(t *testing.T) {
	svc := newTestService(&stubLineRepo{}, &stubCatalog{}, &stubShipping{})
	_, err := svc.UpdateQuantity(context.Background(), domain.Owner{}, 1, 2)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateQuantityDelegates(t *testing.T) {
	repo := &stubLineRepo{updateLine: &domain.CartLine{ID: 4, Quantity: 2}}
	svc := newTestService(repo, &stubCatalog{}, &stubShipping{})
	line, err := svc.UpdateQuantity(context.Background(), domain.UserOwner(1), 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.Quantity != 2 || repo.lastUpdateID != 4 || repo.lastUpdateQ != 2 {
		t.Fatalf("update not delegated as expected")
	}
}

func TestRemoveNotFound(t *testing.T) {
	repo := &stubLineRepo{deleteErr: domain.ErrNotFound}
	svc := newTestService(repo, &stubCatalog{}, &stubShipping{})
	err := svc.Remove(context.Background(), domain.GuestOwner("sess"), 4)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClearZeroOwnerNoop(t *testing.T) {
	repo := &stubLineRepo{}
	svc := newTestService(repo, &stubCatalog{}, &stubShipping{})
	if err := svc.Clear(context.Background(), domain.Owner{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.clearCalled {
		t.Fatalf("expected no repo call for zero owner")
	}
}

func TestTotalsFromSummary(t *testing.T) {
	repo := &stubLineRepo{summary: domain.CartSummary{
		Total:     dec("700"),
		ItemCount: 7,
		TotalDesi: dec("14"),
	}}
	svc := newTestService(repo, &stubCatalog{}, &stubShipping{})
	owner := domain.UserOwner(1)

	total, err := svc.Total(context.Background(), owner)
	if err != nil || !total.Equal(dec("700")) {
		t.Fatalf("expected total 700, got %s err=%v", total, err)
	}
	count, err := svc.ItemCount(context.Background(), owner)
	if err != nil || count != 7 {
		t.Fatalf("expected count 7, got %d err=%v", count, err)
	}
	desi, err := svc.TotalDesi(context.Background(), owner)
	if err != nil || !desi.Equal(dec("14")) {
		t.Fatalf("expected desi 14, got %s err=%v", desi, err)
	}
}

func TestShippingCostEmptyCart(t *testing.T) {
	shippingStub := &stubShipping{cost: dec("20")}
	svc := newTestService(&stubLineRepo{}, &stubCatalog{}, shippingStub)
	cost, rate, err := svc.ShippingCost(context.Background(), domain.UserOwner(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cost.IsZero() || rate != nil {
		t.Fatalf("expected zero cost for empty cart, got %s", cost)
	}
	if shippingStub.called {
		t.Fatalf("resolver should not be consulted for an empty cart")
	}
}

func TestShippingCostDelegates(t *testing.T) {
	rate := &domain.ShippingRate{ID: 1, Name: "Standard", Cost: dec("49.90")}
	shippingStub := &stubShipping{cost: dec("49.90"), rate: rate}
	repo := &stubLineRepo{summary: domain.CartSummary{
		Total:     dec("300"),
		ItemCount: 2,
		TotalDesi: dec("4"),
	}}
	svc := newTestService(repo, &stubCatalog{}, shippingStub)
	cost, got, err := svc.ShippingCost(context.Background(), domain.UserOwner(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cost.Equal(dec("49.90")) || got != rate {
		t.Fatalf("unexpected result cost=%s rate=%+v", cost, got)
	}
	if !shippingStub.lastDesi.Equal(dec("4")) || !shippingStub.lastTot.Equal(dec("300")) {
		t.Fatalf("resolver called with desi=%s total=%s", shippingStub.lastDesi, shippingStub.lastTot)
	}
}

func TestShippingCostNoRatePassedThrough(t *testing.T) {
	shippingStub := &stubShipping{err: domain.ErrNoShippingRate}
	repo := &stubLineRepo{summary: domain.CartSummary{ItemCount: 1, Total: dec("10"), TotalDesi: dec("99")}}
	svc := newTestService(repo, &stubCatalog{}, shippingStub)
	cost, _, err := svc.ShippingCost(context.Background(), domain.UserOwner(1))
	if !errors.Is(err, domain.ErrNoShippingRate) {
		t.Fatalf("expected ErrNoShippingRate, got %v", err)
	}
	if !cost.IsZero() {
		t.Fatalf("expected zero cost, got %s", cost)
	}
}

func TestMergeRequiresSessionID(t *testing.T) {
	svc := newTestService(&stubLineRepo{}, &stubCatalog{}, &stubShipping{})
	if err := svc.Merge(context.Background(), "", 1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty session id, got %v", err)
	}
}

func TestMergeDelegates(t *testing.T) {
	repo := &stubLineRepo{}
	svc := newTestService(repo, &stubCatalog{}, &stubShipping{})
	if err := svc.Merge(context.Background(), "sess-1", 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastMergeSID != "sess-1" || repo.lastMergeUID != 42 {
		t.Fatalf("merge not delegated: %s %d", repo.lastMergeSID, repo.lastMergeUID)
	}
}

func TestMergeRepoError(t *testing.T) {
	repo := &stubLineRepo{mergeErr: errors.New("merge failed")}
	svc := newTestService(repo, &stubCatalog{}, &stubShipping{})
	err := svc.Merge(context.Background(), "sess-1", 42)
	if err == nil || err.Error() != "merge failed" {
		t.Fatalf("expected repo error, got %v", err)
	}
}
