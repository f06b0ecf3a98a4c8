package domain

import "time"

// ProductSnapshot carries the denormalized product attributes captured when a
// line is added, so anonymous carts render without a catalog round-trip.
type ProductSnapshot struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Currency   string `json:"currency"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

// CartLine is one product's presence in a cart. A cart holds at most one line
// per product; adding the same product again increments Quantity.
type CartLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Snapshot  ProductSnapshot `json:"snapshot"`
	AddedAt   time.Time       `json:"addedAt"`
}

// MergeItem is the wire shape sent to the merge endpoint and returned in the
// user-profile cart fallback.
type MergeItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// SumQuantities totals line quantities. Carts stay small (<100 lines), so a
// linear pass is fine.
func SumQuantities(lines []CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}

// MergeItems projects lines down to the productId/quantity pairs the merge
// endpoint accepts.
func MergeItems(lines []CartLine) []MergeItem {
	items := make([]MergeItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, MergeItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items
}
