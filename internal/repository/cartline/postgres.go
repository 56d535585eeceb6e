package cartline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"milstore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lineColumns = `id, product_id, variant_id, quantity, unit_price, user_id, session_id, created_at, updated_at`

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

// ownerFilter maps an owner onto its column. ok is false for the zero
// owner, which matches nothing.
func ownerFilter(o domain.Owner) (col string, val interface{}, ok bool) {
	if id, isUser := o.UserID(); isUser {
		return "user_id", id, true
	}
	if sid, isGuest := o.SessionID(); isGuest {
		return "session_id", sid, true
	}
	return "", nil, false
}

func (r *postgresRepo) ListByOwner(ctx context.Context, owner domain.Owner) ([]domain.CartLine, error) {
	col, val, ok := ownerFilter(owner)
	if !ok {
		return nil, nil
	}
	q := fmt.Sprintf(`
SELECT %s
FROM cart_lines
WHERE %s = $1
ORDER BY created_at ASC, id ASC
`, lineColumns, col)
	rows, err := r.pool.Query(ctx, q, val)
	if err != nil {
		r.logger.Printf("cartline repo: list owner=%s error=%v", owner, err)
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("cartline repo: list rows owner=%s error=%v", owner, err)
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) Add(ctx context.Context, in AddInput) (*domain.CartLine, error) {
	col, val, ok := ownerFilter(in.Owner)
	if !ok {
		return nil, domain.ErrNotFound
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	stock, err := lockStock(ctx, tx, in.ProductID, in.VariantID)
	if err != nil {
		r.logger.Printf("cartline repo: add owner=%s product=%d error=%v", in.Owner, in.ProductID, err)
		return nil, err
	}

	q := fmt.Sprintf(`
SELECT id, quantity
FROM cart_lines
WHERE %s = $1 AND product_id = $2 AND variant_id IS NOT DISTINCT FROM $3
`, col)
	var lineID int64
	var existingQty int
	err = tx.QueryRow(ctx, q, val, in.ProductID, in.VariantID).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var line *domain.CartLine
	if err == nil {
		newQty := existingQty + in.Quantity
		if newQty > stock {
			r.logger.Printf("cartline repo: add owner=%s product=%d requested=%d held=%d stock=%d insufficient",
				in.Owner, in.ProductID, in.Quantity, existingQty, stock)
			return nil, domain.ErrInsufficientStock
		}
		line, err = scanLine(tx.QueryRow(ctx, fmt.Sprintf(`
UPDATE cart_lines
SET quantity = $1, updated_at = now()
WHERE id = $2
RETURNING %s
`, lineColumns), newQty, lineID))
		if err != nil {
			return nil, err
		}
	} else {
		if in.Quantity > stock {
			r.logger.Printf("cartline repo: add owner=%s product=%d requested=%d stock=%d insufficient",
				in.Owner, in.ProductID, in.Quantity, stock)
			return nil, domain.ErrInsufficientStock
		}
		line, err = scanLine(tx.QueryRow(ctx, fmt.Sprintf(`
INSERT INTO cart_lines (product_id, variant_id, quantity, unit_price, %s)
VALUES ($1, $2, $3, $4, $5)
RETURNING %s
`, col, lineColumns), in.ProductID, in.VariantID, in.Quantity, in.UnitPrice, val))
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, owner domain.Owner, lineID int64, quantity int) (*domain.CartLine, error) {
	col, val, ok := ownerFilter(owner)
	if !ok {
		return nil, domain.ErrNotFound
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var productID int64
	var variantID *int64
	err = tx.QueryRow(ctx, fmt.Sprintf(`
SELECT product_id, variant_id
FROM cart_lines
WHERE id = $1 AND %s = $2
`, col), lineID, val).Scan(&productID, &variantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if quantity <= 0 {
		cmd, err := tx.Exec(ctx, fmt.Sprintf(`
DELETE FROM cart_lines
WHERE id = $1 AND %s = $2
`, col), lineID, val)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, domain.ErrNotFound
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	stock, err := lockStock(ctx, tx, productID, variantID)
	if err != nil {
		return nil, err
	}
	if quantity > stock {
		r.logger.Printf("cartline repo: update owner=%s line=%d requested=%d stock=%d insufficient",
			owner, lineID, quantity, stock)
		return nil, domain.ErrInsufficientStock
	}

	line, err := scanLine(tx.QueryRow(ctx, fmt.Sprintf(`
UPDATE cart_lines
SET quantity = $1, updated_at = now()
WHERE id = $2 AND %s = $3
RETURNING %s
`, col, lineColumns), quantity, lineID, val))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) Delete(ctx context.Context, owner domain.Owner, lineID int64) error {
	col, val, ok := ownerFilter(owner)
	if !ok {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, fmt.Sprintf(`
DELETE FROM cart_lines
WHERE id = $1 AND %s = $2
`, col), lineID, val)
	if err != nil {
		r.logger.Printf("cartline repo: delete owner=%s line=%d error=%v", owner, lineID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteByOwner(ctx context.Context, owner domain.Owner) error {
	col, val, ok := ownerFilter(owner)
	if !ok {
		return nil
	}
	if _, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM cart_lines WHERE %s = $1`, col), val); err != nil {
		r.logger.Printf("cartline repo: clear owner=%s error=%v", owner, err)
		return err
	}
	return nil
}

func (r *postgresRepo) Summary(ctx context.Context, owner domain.Owner) (domain.CartSummary, error) {
	var summary domain.CartSummary
	col, val, ok := ownerFilter(owner)
	if !ok {
		return summary, nil
	}
	q := fmt.Sprintf(`
SELECT COALESCE(SUM(l.quantity * l.unit_price), 0),
       COALESCE(SUM(l.quantity), 0)::int,
       COALESCE(SUM(l.quantity * COALESCE(v.desi, p.desi)), 0)
FROM cart_lines l
JOIN products p ON p.id = l.product_id
LEFT JOIN product_variants v ON v.id = l.variant_id
WHERE l.%s = $1
`, col)
	if err := r.pool.QueryRow(ctx, q, val).Scan(&summary.Total, &summary.ItemCount, &summary.TotalDesi); err != nil {
		r.logger.Printf("cartline repo: summary owner=%s error=%v", owner, err)
		return domain.CartSummary{}, err
	}
	return summary, nil
}

func (r *postgresRepo) ContainsProduct(ctx context.Context, owner domain.Owner, productID int64, variantID *int64) (bool, error) {
	col, val, ok := ownerFilter(owner)
	if !ok {
		return false, nil
	}
	q := fmt.Sprintf(`
SELECT EXISTS (
	SELECT 1 FROM cart_lines
	WHERE %s = $1 AND product_id = $2 AND variant_id IS NOT DISTINCT FROM $3
)
`, col)
	var exists bool
	if err := r.pool.QueryRow(ctx, q, val, productID, variantID).Scan(&exists); err != nil {
		r.logger.Printf("cartline repo: contains owner=%s product=%d error=%v", owner, productID, err)
		return false, err
	}
	return exists, nil
}

func (r *postgresRepo) MergeInto(ctx context.Context, sessionID string, userID int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, fmt.Sprintf(`
SELECT %s
FROM cart_lines
WHERE session_id = $1
ORDER BY created_at ASC, id ASC
`, lineColumns), sessionID)
	if err != nil {
		r.logger.Printf("cartline repo: merge session=%s user=%d error=%v", sessionID, userID, err)
		return err
	}
	var guestLines []domain.CartLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			rows.Close()
			return err
		}
		guestLines = append(guestLines, *line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(guestLines) == 0 {
		return tx.Commit(ctx)
	}

	for _, guest := range guestLines {
		var userLineID int64
		var userQty int
		err := tx.QueryRow(ctx, `
SELECT id, quantity
FROM cart_lines
WHERE user_id = $1 AND product_id = $2 AND variant_id IS NOT DISTINCT FROM $3
`, userID, guest.ProductID, guest.VariantID).Scan(&userLineID, &userQty)
		switch {
		case err == nil:
			// Same item in both carts: sum quantities onto the user
			// line, drop the guest line. Stock is not re-checked here;
			// checkout validates final quantities.
			if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, updated_at = now()
WHERE id = $2
`, userQty+guest.Quantity, userLineID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, guest.ID); err != nil {
				return err
			}
		case errors.Is(err, pgx.ErrNoRows):
			if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET user_id = $1, session_id = NULL, updated_at = now()
WHERE id = $2
`, userID, guest.ID); err != nil {
				return err
			}
		default:
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Printf("cartline repo: merge commit session=%s user=%d error=%v", sessionID, userID, err)
		return err
	}
	r.logger.Printf("cartline repo: merged session=%s into user=%d lines=%d", sessionID, userID, len(guestLines))
	return nil
}

// lockStock reads the available stock for the product or variant while
// taking a row lock, serializing concurrent cart mutations for the
// same item.
func lockStock(ctx context.Context, tx pgx.Tx, productID int64, variantID *int64) (int, error) {
	var stock int
	var err error
	if variantID != nil {
		err = tx.QueryRow(ctx, `
SELECT stock_quantity
FROM product_variants
WHERE id = $1
FOR UPDATE
`, *variantID).Scan(&stock)
	} else {
		err = tx.QueryRow(ctx, `
SELECT stock_quantity
FROM products
WHERE id = $1
FOR UPDATE
`, productID).Scan(&stock)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return stock, nil
}

func scanLine(row pgx.Row) (*domain.CartLine, error) {
	var line domain.CartLine
	if err := row.Scan(
		&line.ID,
		&line.ProductID,
		&line.VariantID,
		&line.Quantity,
		&line.UnitPrice,
		&line.UserID,
		&line.SessionID,
		&line.CreatedAt,
		&line.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &line, nil
}
