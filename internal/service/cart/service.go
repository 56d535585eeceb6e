package cart

import (
	"context"
	"fmt"
	"io"
	"log"

	"milstore/internal/domain"
	"milstore/internal/repository/cartline"
	catalogrepo "milstore/internal/repository/catalog"
	shippingsvc "milstore/internal/service/shipping"

	"github.com/shopspring/decimal"
)

type lineRepo interface {
	ListByOwner(ctx context.Context, owner domain.Owner) ([]domain.CartLine, error)
	Add(ctx context.Context, in cartline.AddInput) (*domain.CartLine, error)
	UpdateQuantity(ctx context.Context, owner domain.Owner, lineID int64, quantity int) (*domain.CartLine, error)
	Delete(ctx context.Context, owner domain.Owner, lineID int64) error
	DeleteByOwner(ctx context.Context, owner domain.Owner) error
	Summary(ctx context.Context, owner domain.Owner) (domain.CartSummary, error)
	ContainsProduct(ctx context.Context, owner domain.Owner, productID int64, variantID *int64) (bool, error)
	MergeInto(ctx context.Context, sessionID string, userID int64) error
}

type catalogRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetVariant(ctx context.Context, id int64) (*domain.ProductVariant, error)
}

type shippingCalc interface {
	CalculateCost(ctx context.Context, totalDesi, cartTotal decimal.Decimal) (decimal.Decimal, *domain.ShippingRate, error)
}

// Service owns the cart line collection for users and guest sessions.
type Service struct {
	lines    lineRepo
	catalog  catalogRepo
	shipping shippingCalc
	logger   *log.Logger
}

func New(lines cartline.Repository, catalog catalogrepo.Repository, shipping *shippingsvc.Resolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{lines: lines, catalog: catalog, shipping: shipping, logger: logger}
}

// List returns all lines for the owner, empty when the owner is
// unspecified.
func (s *Service) List(ctx context.Context, owner domain.Owner) ([]domain.CartLine, error) {
	if owner.IsZero() {
		return nil, nil
	}
	return s.lines.ListByOwner(ctx, owner)
}

// Add puts quantity of a product (optionally a variant) into the
// owner's cart, folding into an existing line when the same
// (product, variant) is already present. The unit price is snapshotted
// from the catalog at add time.
func (s *Service) Add(ctx context.Context, owner domain.Owner, productID int64, variantID *int64, quantity int) (*domain.CartLine, error) {
	if owner.IsZero() {
		return nil, domain.ErrNotFound
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}

	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, domain.ErrNotFound
	}

	unitPrice := product.Price
	if variantID != nil {
		variant, err := s.catalog.GetVariant(ctx, *variantID)
		if err != nil {
			return nil, err
		}
		if variant.ProductID != productID || !variant.Active {
			return nil, domain.ErrNotFound
		}
		unitPrice = variant.UnitPrice(*product)
	}

	line, err := s.lines.Add(ctx, cartline.AddInput{
		Owner:     owner,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("cart: add owner=%s product=%d quantity=%d line=%d", owner, productID, quantity, line.ID)
	return line, nil
}

// UpdateQuantity sets the quantity of an owned line. Zero or negative
// removes the line and returns (nil, nil).
func (s *Service) UpdateQuantity(ctx context.Context, owner domain.Owner, lineID int64, quantity int) (*domain.CartLine, error) {
	if owner.IsZero() {
		return nil, domain.ErrNotFound
	}
	return s.lines.UpdateQuantity(ctx, owner, lineID, quantity)
}

// Remove deletes an owned line; NotFound when no line matches under
// this owner.
func (s *Service) Remove(ctx context.Context, owner domain.Owner, lineID int64) error {
	if owner.IsZero() {
		return domain.ErrNotFound
	}
	return s.lines.Delete(ctx, owner, lineID)
}

// Clear deletes every line for the owner; succeeds when there are none.
func (s *Service) Clear(ctx context.Context, owner domain.Owner) error {
	if owner.IsZero() {
		return nil
	}
	return s.lines.DeleteByOwner(ctx, owner)
}

// Summary aggregates total, item count and total desi in one query.
func (s *Service) Summary(ctx context.Context, owner domain.Owner) (domain.CartSummary, error) {
	if owner.IsZero() {
		return domain.CartSummary{}, nil
	}
	return s.lines.Summary(ctx, owner)
}

func (s *Service) Total(ctx context.Context, owner domain.Owner) (decimal.Decimal, error) {
	summary, err := s.Summary(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}
	return summary.Total, nil
}

func (s *Service) ItemCount(ctx context.Context, owner domain.Owner) (int, error) {
	summary, err := s.Summary(ctx, owner)
	if err != nil {
		return 0, err
	}
	return summary.ItemCount, nil
}

func (s *Service) TotalDesi(ctx context.Context, owner domain.Owner) (decimal.Decimal, error) {
	summary, err := s.Summary(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}
	return summary.TotalDesi, nil
}

func (s *Service) ContainsProduct(ctx context.Context, owner domain.Owner, productID int64, variantID *int64) (bool, error) {
	if owner.IsZero() {
		return false, nil
	}
	return s.lines.ContainsProduct(ctx, owner, productID, variantID)
}

// ShippingCost prices shipping for the owner's cart. An empty cart
// ships for zero without consulting the rate table. When no tier
// covers the cart's desi, the cost is zero and ErrNoShippingRate is
// returned alongside it.
func (s *Service) ShippingCost(ctx context.Context, owner domain.Owner) (decimal.Decimal, *domain.ShippingRate, error) {
	summary, err := s.Summary(ctx, owner)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if summary.ItemCount == 0 {
		return decimal.Zero, nil, nil
	}
	return s.shipping.CalculateCost(ctx, summary.TotalDesi, summary.Total)
}

// Merge folds the anonymous session's cart into the user's cart. Runs
// once per login; trivially succeeds when the guest cart is empty.
func (s *Service) Merge(ctx context.Context, sessionID string, userID int64) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id required", domain.ErrValidation)
	}
	if err := s.lines.MergeInto(ctx, sessionID, userID); err != nil {
		s.logger.Printf("cart: merge session=%s user=%d error=%v", sessionID, userID, err)
		return err
	}
	return nil
}
