package cart

import (
	"context"

	"storefront-cart/internal/domain"
)

// Repository stores the server-of-record cart, keyed by user. At most one
// line exists per (user, product); AddItem increments the quantity of an
// existing line instead of duplicating it.
type Repository interface {
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	Count(ctx context.Context, userID string) (int, error)
	AddItem(ctx context.Context, userID string, product domain.Product, quantity int) error
	UpdateItem(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
}
