package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is catalog reference data consumed read-only by the cart.
type Product struct {
	ID            int64            `json:"id"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	Desi          decimal.Decimal  `json:"desi"`
	StockQuantity int              `json:"stockQuantity"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"createdAt"`
	Variants      []ProductVariant `json:"variants,omitempty"`
}

// ProductVariant refines a product. PriceDelta is added to the product
// price; Desi, when set, overrides the product desi.
type ProductVariant struct {
	ID            int64            `json:"id"`
	ProductID     int64            `json:"productId"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	PriceDelta    decimal.Decimal  `json:"priceDelta"`
	Desi          *decimal.Decimal `json:"desi,omitempty"`
	StockQuantity int              `json:"stockQuantity"`
	Active        bool             `json:"active"`
}

// UnitPrice is the effective price for this variant.
func (v ProductVariant) UnitPrice(p Product) decimal.Decimal {
	return p.Price.Add(v.PriceDelta)
}

// EffectiveDesi is the variant desi override, or the product desi.
func (v ProductVariant) EffectiveDesi(p Product) decimal.Decimal {
	if v.Desi != nil {
		return *v.Desi
	}
	return p.Desi
}
