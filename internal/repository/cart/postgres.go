package cart

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-cart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `
SELECT product_id::text, quantity, snapshot, added_at
FROM cart_lines
WHERE user_id = $1
ORDER BY added_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.Snapshot, &line.AddedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) Count(ctx context.Context, userID string) (int, error) {
	const q = `
SELECT COALESCE(SUM(quantity), 0)
FROM cart_lines
WHERE user_id = $1
`
	var count int
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, userID string, product domain.Product, quantity int) error {
	const q = `
INSERT INTO cart_lines (user_id, product_id, quantity, snapshot)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, product_id) DO UPDATE SET
    quantity = cart_lines.quantity + EXCLUDED.quantity
`
	_, err := r.pool.Exec(ctx, q, userID, product.ID, quantity, domain.SnapshotOf(product))
	return err
}

func (r *postgresRepo) UpdateItem(ctx context.Context, userID, productID string, quantity int) error {
	const q = `
UPDATE cart_lines
SET quantity = $1
WHERE user_id = $2 AND product_id = $3
`
	cmd, err := r.pool.Exec(ctx, q, quantity, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, productID string) error {
	// Idempotent: removing an absent line is not an error.
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE user_id = $1 AND product_id = $2
`, userID, productID)
	return err
}
