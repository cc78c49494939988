// Package cart maintains the per-user cart outside of checkout.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store"
)

// Service is the cart mutator. All edits are last-write-wins; the
// authoritative stock check happens at checkout, not here.
type Service struct {
	carts    store.CartStore
	products store.ProductStore
}

func NewService(carts store.CartStore, products store.ProductStore) *Service {
	return &Service{carts: carts, products: products}
}

// Get returns the user's cart, empty if none exists yet.
func (s *Service) Get(ctx context.Context, userID string) (*model.Cart, error) {
	c, err := s.carts.Get(ctx, userID)
	if errors.Is(err, model.ErrCartNotFound) {
		return &model.Cart{UserID: userID}, nil
	}
	return c, err
}

// ResolvedItem pairs a cart line with its live product record.
type ResolvedItem struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
}

// Resolve fetches the live product for each line item. Lines whose product
// has since been deleted are dropped from the view; checkout will reject
// them authoritatively.
func (s *Service) Resolve(ctx context.Context, c *model.Cart) ([]ResolvedItem, error) {
	resolved := make([]ResolvedItem, 0, len(c.Items))
	for _, it := range c.Items {
		p, err := s.products.GetByID(ctx, it.ProductID)
		if errors.Is(err, model.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ResolvedItem{Product: *p, Quantity: it.Quantity})
	}
	return resolved, nil
}

// AddItem adds quantity of a product, merging with an existing line instead
// of duplicating it. The stock check here is a soft one.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > p.Stock {
		return nil, &model.InsufficientStockError{ProductName: p.Name, Available: p.Stock}
	}

	c, err := s.carts.Get(ctx, userID)
	if errors.Is(err, model.ErrCartNotFound) {
		c = &model.Cart{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	if i := c.Item(productID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, model.CartItem{ProductID: productID, Quantity: quantity})
	}
	c.UpdatedAt = time.Now()

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateItem sets the quantity of an existing line item.
func (s *Service) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.Item(productID)
	if i < 0 {
		return nil, model.ErrItemNotFound
	}
	c.Items[i].Quantity = quantity
	c.UpdatedAt = time.Now()

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes a line item. Removing an absent item is not an error;
// the cart is simply left unchanged.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	c.UpdatedAt = time.Now()

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart, creating it first if absent.
func (s *Service) Clear(ctx context.Context, userID string) (*model.Cart, error) {
	c := &model.Cart{UserID: userID, UpdatedAt: time.Now()}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
