package cartline

import (
	"context"

	"milstore/internal/domain"

	"github.com/shopspring/decimal"
)

// AddInput carries a validated add-to-cart request. UnitPrice is the
// price snapshot computed by the caller; available stock is re-read
// under lock inside the repository.
type AddInput struct {
	Owner     domain.Owner
	ProductID int64
	VariantID *int64
	Quantity  int
	UnitPrice decimal.Decimal
}

type Repository interface {
	ListByOwner(ctx context.Context, owner domain.Owner) ([]domain.CartLine, error)
	// Add upserts the (owner, product, variant) line inside one
	// transaction holding the stock row lock, so concurrent adds for
	// the same product serialize. Returns ErrInsufficientStock when the
	// cumulative quantity would exceed stock.
	Add(ctx context.Context, in AddInput) (*domain.CartLine, error)
	// UpdateQuantity sets the line's quantity; quantity <= 0 deletes
	// the line and returns (nil, nil).
	UpdateQuantity(ctx context.Context, owner domain.Owner, lineID int64, quantity int) (*domain.CartLine, error)
	Delete(ctx context.Context, owner domain.Owner, lineID int64) error
	DeleteByOwner(ctx context.Context, owner domain.Owner) error
	Summary(ctx context.Context, owner domain.Owner) (domain.CartSummary, error)
	ContainsProduct(ctx context.Context, owner domain.Owner, productID int64, variantID *int64) (bool, error)
	// MergeInto folds the session's cart into the user's cart as one
	// transaction: matching (product, variant) lines are summed, the
	// rest are re-parented.
	MergeInto(ctx context.Context, sessionID string, userID int64) error
}
