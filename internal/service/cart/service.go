package cart

import (
	"context"
	"errors"
	"strings"

	"storefront-cart/internal/domain"
)

// Service implements the server-side cart operations, including the
// line-level guest-cart merge performed at login.
type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	Count(ctx context.Context, userID string) (int, error)
	AddItem(ctx context.Context, userID string, product domain.Product, quantity int) error
	UpdateItem(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	return s.repo.Lines(ctx, userID)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.Count(ctx, userID)
}

// AddItem verifies the product and upserts the line; an existing line's
// quantity is incremented, never duplicated.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	product, err := s.products.GetByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		return err
	}
	return s.repo.AddItem(ctx, userID, *product, quantity)
}

func (s *Service) UpdateItem(ctx context.Context, userID, productID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	return s.repo.UpdateItem(ctx, userID, productID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.repo.RemoveItem(ctx, userID, productID)
}

// Merge folds a guest cart into the user's cart: quantities sum for
// overlapping products, everything else unions in. Duplicate product ids in
// the payload are combined first, entries with quantities below 1 or unknown
// products are skipped, so a partially bad payload never drops valid items.
func (s *Service) Merge(ctx context.Context, userID string, items []domain.MergeItem) error {
	merged := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ProductID)
		if id == "" || item.Quantity < 1 {
			continue
		}
		if _, ok := merged[id]; !ok {
			order = append(order, id)
		}
		merged[id] += item.Quantity
	}

	for _, id := range order {
		product, err := s.products.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return err
		}
		if err := s.repo.AddItem(ctx, userID, *product, merged[id]); err != nil {
			return err
		}
	}
	return nil
}
