package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Currency    string    `json:"currency"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SnapshotOf captures the attributes a cart line keeps from a product at
// add-time.
func SnapshotOf(p Product) ProductSnapshot {
	return ProductSnapshot{
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Currency:   p.Currency,
		ImageURL:   p.ImageURL,
	}
}
