package seed

import (
	"context"
	"fmt"

	"milstore/internal/domain"
	shippingraterepo "milstore/internal/repository/shippingrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type productSeed struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Desi        decimal.Decimal
	Stock       int
	Variants    []variantSeed
}

type variantSeed struct {
	SKU        string
	Name       string
	PriceDelta decimal.Decimal
	Desi       *decimal.Decimal
	Stock      int
}

// Apply inserts demo catalog and shipping reference data for manual
// testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			SKU:         "MS-VEST-MOLLE",
			Name:        "MOLLE Tactical Vest",
			Description: "Modular load-bearing vest, cordura shell",
			Price:       decimal.NewFromInt(2450),
			Desi:        decimal.NewFromInt(4),
			Stock:       35,
			Variants: []variantSeed{
				{SKU: "MS-VEST-MOLLE-OD", Name: "Olive Drab", PriceDelta: decimal.Zero, Stock: 20},
				{SKU: "MS-VEST-MOLLE-MC", Name: "Multicam", PriceDelta: decimal.NewFromInt(150), Stock: 15},
			},
		},
		{
			SKU:         "MS-PLATE-L4",
			Name:        "Level IV Ballistic Plate",
			Description: "Stand-alone ceramic plate, 25x30 cm",
			Price:       decimal.NewFromInt(5900),
			Desi:        decimal.NewFromInt(8),
			Stock:       12,
		},
		{
			SKU:         "MS-BOOT-DSRT",
			Name:        "Desert Combat Boot",
			Description: "Suede and cordura, vibram sole",
			Price:       decimal.NewFromInt(1890),
			Desi:        decimal.NewFromInt(3),
			Stock:       60,
			Variants: []variantSeed{
				{SKU: "MS-BOOT-DSRT-42", Name: "Size 42", PriceDelta: decimal.Zero, Stock: 25},
				{SKU: "MS-BOOT-DSRT-43", Name: "Size 43", PriceDelta: decimal.Zero, Stock: 22},
				{SKU: "MS-BOOT-DSRT-44", Name: "Size 44", PriceDelta: decimal.Zero, Stock: 13},
			},
		},
		{
			SKU:         "MS-GLOVE-NOMEX",
			Name:        "Nomex Flight Gloves",
			Description: "Flame resistant, goat leather palm",
			Price:       decimal.NewFromFloat(349.90),
			Desi:        decimal.NewFromInt(1),
			Stock:       120,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	if err := seedShippingRates(ctx, pool); err != nil {
		return fmt.Errorf("seed shipping rates: %w", err)
	}
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (sku, name, description, price, desi, stock_quantity, active)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    desi = EXCLUDED.desi,
    stock_quantity = EXCLUDED.stock_quantity
RETURNING id
`
	var productID int64
	if err := pool.QueryRow(ctx, q, p.SKU, p.Name, p.Description, p.Price, p.Desi, p.Stock).Scan(&productID); err != nil {
		return err
	}

	const vq = `
INSERT INTO product_variants (product_id, sku, name, price_delta, desi, stock_quantity, active)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name,
    price_delta = EXCLUDED.price_delta,
    desi = EXCLUDED.desi,
    stock_quantity = EXCLUDED.stock_quantity
`
	for _, v := range p.Variants {
		if _, err := pool.Exec(ctx, vq, productID, v.SKU, v.Name, v.PriceDelta, v.Desi, v.Stock); err != nil {
			return err
		}
	}
	return nil
}

// seedShippingRates installs a contiguous three-tier desi table with a
// free-shipping threshold on the lower tiers.
func seedShippingRates(ctx context.Context, pool *pgxpool.Pool) error {
	repo := shippingraterepo.NewPostgres(pool, nil)

	five := decimal.NewFromInt(5)
	ten := decimal.NewFromInt(10)
	threshold := decimal.NewFromInt(5000)

	rates := []domain.ShippingRate{
		{
			Name:          "Standard 0-5 desi",
			MinDesi:       decimal.Zero,
			MaxDesi:       &five,
			Cost:          decimal.NewFromFloat(49.90),
			FreeThreshold: &threshold,
			SortOrder:     1,
			Active:        true,
			IsDefault:     true,
		},
		{
			Name:          "Standard 5-10 desi",
			MinDesi:       five,
			MaxDesi:       &ten,
			Cost:          decimal.NewFromFloat(89.90),
			FreeThreshold: &threshold,
			SortOrder:     2,
			Active:        true,
		},
		{
			Name:      "Freight 10+ desi",
			MinDesi:   ten,
			Cost:      decimal.NewFromFloat(199.90),
			SortOrder: 3,
			Active:    true,
		},
	}

	for _, rate := range rates {
		if _, err := repo.Upsert(ctx, rate); err != nil {
			return err
		}
	}
	return nil
}
