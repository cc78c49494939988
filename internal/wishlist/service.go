// Package wishlist manages the per-user saved-products list.
package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/example/furniture-shop/internal/cart"
	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store"
)

type Service struct {
	wishlists store.WishlistStore
	products  store.ProductStore
	carts     *cart.Service
}

func NewService(wishlists store.WishlistStore, products store.ProductStore, carts *cart.Service) *Service {
	return &Service{wishlists: wishlists, products: products, carts: carts}
}

func (s *Service) Get(ctx context.Context, userID string) (*model.Wishlist, error) {
	return s.wishlists.Get(ctx, userID)
}

// Resolve fetches live product records for the saved ids, dropping products
// that have since been deleted.
func (s *Service) Resolve(ctx context.Context, w *model.Wishlist) ([]model.Product, error) {
	products := make([]model.Product, 0, len(w.Items))
	for _, id := range w.Items {
		p, err := s.products.GetByID(ctx, id)
		if errors.Is(err, model.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

// Add saves a product. Saving one twice fails with
// model.ErrWishlistDuplicate.
func (s *Service) Add(ctx context.Context, userID, productID string) (*model.Wishlist, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	w, err := s.wishlists.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w.Has(productID) {
		return nil, model.ErrWishlistDuplicate
	}

	w.Items = append(w.Items, productID)
	w.UpdatedAt = time.Now()
	if err := s.wishlists.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Remove deletes a saved product. Removing an absent one is not an error.
func (s *Service) Remove(ctx context.Context, userID, productID string) (*model.Wishlist, error) {
	w, err := s.wishlists.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := w.Items[:0]
	for _, id := range w.Items {
		if id != productID {
			kept = append(kept, id)
		}
	}
	w.Items = kept
	w.UpdatedAt = time.Now()

	if err := s.wishlists.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// MoveToCart adds one unit of a saved product to the cart and removes it
// from the wishlist.
func (s *Service) MoveToCart(ctx context.Context, userID, productID string) (*model.Wishlist, error) {
	w, err := s.wishlists.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !w.Has(productID) {
		return nil, model.ErrItemNotFound
	}

	if _, err := s.carts.AddItem(ctx, userID, productID, 1); err != nil {
		return nil, err
	}
	return s.Remove(ctx, userID, productID)
}
