package shippingrate

import (
	"context"

	"milstore/internal/domain"
)

// Repository serves the administrator-managed shipping rate table. The
// table is small and fully loadable per request.
type Repository interface {
	// ListActive returns active tiers in ascending (sort_order, id).
	ListActive(ctx context.Context) ([]domain.ShippingRate, error)
	// Upsert inserts or replaces a tier by name; used by the seed and
	// the importer, never by the cart subsystem.
	Upsert(ctx context.Context, rate domain.ShippingRate) (*domain.ShippingRate, error)
}
