package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	ID          string
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	ImageURL    string
}

// Apply inserts basic catalog data for manual testing. Idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			ID:          "sku-42",
			SKU:         "SKU-42",
			Name:        "Classic Sneaker",
			Description: "Canvas low-top, the demo storefront staple",
			PriceCents:  5999,
			Currency:    "USD",
			ImageURL:    "https://cdn.example.com/img/sku-42.jpg",
		},
		{
			ID:          "sku-77",
			SKU:         "SKU-77",
			Name:        "Wool Beanie",
			Description: "Winter collection knit beanie",
			PriceCents:  1899,
			Currency:    "USD",
			ImageURL:    "https://cdn.example.com/img/sku-77.jpg",
		},
		{
			ID:          "sku-100",
			SKU:         "SKU-100",
			Name:        "Water Bottle",
			Description: "Insulated steel bottle, 750ml",
			PriceCents:  2499,
			Currency:    "USD",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (id, sku, name, description, price_cents, currency, image_url)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''))
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    image_url = EXCLUDED.image_url
`
	_, err := pool.Exec(ctx, q, p.ID, p.SKU, p.Name, p.Description, p.PriceCents, p.Currency, p.ImageURL)
	return err
}
