package shipping

import (
	"context"
	"io"
	"log"

	"milstore/internal/domain"
	"milstore/internal/repository/shippingrate"

	"github.com/shopspring/decimal"
)

type rateRepo interface {
	ListActive(ctx context.Context) ([]domain.ShippingRate, error)
}

// Resolver prices shipments against the tiered desi rate table.
type Resolver struct {
	rates  rateRepo
	logger *log.Logger
}

func New(rates shippingrate.Repository, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{rates: rates, logger: logger}
}

// ResolveRate returns the first active tier, in ascending
// (sort_order, id), whose range contains totalDesi. A desi exactly on
// a shared boundary resolves to the lower sort order. Returns
// ErrNoShippingRate when no tier covers the value.
func (r *Resolver) ResolveRate(ctx context.Context, totalDesi decimal.Decimal) (*domain.ShippingRate, error) {
	rates, err := r.rates.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rates {
		if rates[i].Covers(totalDesi) {
			return &rates[i], nil
		}
	}
	return nil, domain.ErrNoShippingRate
}

// CalculateCost resolves the tier for totalDesi and applies its
// free-shipping threshold against cartTotal. When no tier matches, the
// cost is zero and ErrNoShippingRate is returned alongside it so the
// caller can surface the configuration gap instead of treating the
// order as genuinely free.
func (r *Resolver) CalculateCost(ctx context.Context, totalDesi, cartTotal decimal.Decimal) (decimal.Decimal, *domain.ShippingRate, error) {
	rate, err := r.ResolveRate(ctx, totalDesi)
	if err != nil {
		if err == domain.ErrNoShippingRate {
			r.logger.Printf("shipping: no active rate covers desi=%s, pricing shipping at zero", totalDesi)
			return decimal.Zero, nil, domain.ErrNoShippingRate
		}
		return decimal.Zero, nil, err
	}
	if rate.FreeThreshold != nil && cartTotal.GreaterThanOrEqual(*rate.FreeThreshold) {
		return decimal.Zero, rate, nil
	}
	return rate.Cost, rate, nil
}
