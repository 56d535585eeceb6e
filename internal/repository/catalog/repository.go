package catalog

import (
	"context"

	"milstore/internal/domain"
)

// Repository is the read-only view of the product catalog the cart
// subsystem consumes.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetVariant(ctx context.Context, id int64) (*domain.ProductVariant, error)
}
