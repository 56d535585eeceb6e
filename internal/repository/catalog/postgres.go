package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"milstore/internal/domain"

	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, sku, name, COALESCE(description, ''), price, desi, stock_quantity, active, created_at
FROM products
WHERE active
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("catalog repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Desi, &p.StockQuantity, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("catalog repo: list rows error=%v", err)
		return nil, err
	}

	for i := range result {
		variants, err := r.variantsForProduct(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Variants = variants
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
SELECT id, sku, name, COALESCE(description, ''), price, desi, stock_quantity, active, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Desi, &p.StockQuantity, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("catalog repo: get id=%d not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get id=%d error=%v", id, err)
		return nil, err
	}

	variants, err := r.variantsForProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Variants = variants
	return &p, nil
}

func (r *postgresRepo) GetVariant(ctx context.Context, id int64) (*domain.ProductVariant, error) {
	const q = `
SELECT id, product_id, sku, name, price_delta, desi, stock_quantity, active
FROM product_variants
WHERE id = $1
`
	var v domain.ProductVariant
	err := r.pool.QueryRow(ctx, q, id).Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.PriceDelta, &v.Desi, &v.StockQuantity, &v.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("catalog repo: get variant id=%d not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: get variant id=%d error=%v", id, err)
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepo) variantsForProduct(ctx context.Context, productID int64) ([]domain.ProductVariant, error) {
	const q = `
SELECT id, product_id, sku, name, price_delta, desi, stock_quantity, active
FROM product_variants
WHERE product_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []domain.ProductVariant
	for rows.Next() {
		var v domain.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.PriceDelta, &v.Desi, &v.StockQuantity, &v.Active); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
