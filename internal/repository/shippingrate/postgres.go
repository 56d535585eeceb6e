package shippingrate

import (
	"context"
	"io"
	"log"

	"milstore/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.ShippingRate, error) {
	const q = `
SELECT id, name, min_desi, max_desi, cost, free_threshold, sort_order, active, is_default
FROM shipping_rates
WHERE active
ORDER BY sort_order ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("shippingrate repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var rates []domain.ShippingRate
	for rows.Next() {
		var rate domain.ShippingRate
		if err := rows.Scan(&rate.ID, &rate.Name, &rate.MinDesi, &rate.MaxDesi, &rate.Cost, &rate.FreeThreshold, &rate.SortOrder, &rate.Active, &rate.IsDefault); err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, rate domain.ShippingRate) (*domain.ShippingRate, error) {
	const q = `
INSERT INTO shipping_rates (name, min_desi, max_desi, cost, free_threshold, sort_order, active, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (name) DO UPDATE SET
    min_desi = EXCLUDED.min_desi,
    max_desi = EXCLUDED.max_desi,
    cost = EXCLUDED.cost,
    free_threshold = EXCLUDED.free_threshold,
    sort_order = EXCLUDED.sort_order,
    active = EXCLUDED.active,
    is_default = EXCLUDED.is_default
RETURNING id
`
	out := rate
	err := r.pool.QueryRow(ctx, q,
		rate.Name,
		rate.MinDesi,
		rate.MaxDesi,
		rate.Cost,
		rate.FreeThreshold,
		rate.SortOrder,
		rate.Active,
		rate.IsDefault,
	).Scan(&out.ID)
	if err != nil {
		r.logger.Printf("shippingrate repo: upsert name=%s error=%v", rate.Name, err)
		return nil, err
	}
	r.logger.Printf("shippingrate repo: upserted name=%s id=%d", out.Name, out.ID)
	return &out, nil
}
