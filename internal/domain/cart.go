package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product (optionally one variant) held in a cart.
// Exactly one of UserID/SessionID is set; a persisted line always has
// quantity >= 1.
type CartLine struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	VariantID *int64          `json:"variantId,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UserID    *int64          `json:"-"`
	SessionID *string         `json:"-"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// LineTotal is quantity times the snapshotted unit price.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Owner reconstructs the owner the line was filed under.
func (l CartLine) Owner() Owner {
	switch {
	case l.UserID != nil:
		return UserOwner(*l.UserID)
	case l.SessionID != nil:
		return GuestOwner(*l.SessionID)
	default:
		return Owner{}
	}
}

// CartSummary aggregates a cart for display and shipping pricing.
type CartSummary struct {
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	TotalDesi decimal.Decimal `json:"totalDesi"`
}
