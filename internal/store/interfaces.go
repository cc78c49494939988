package store

import (
	"context"

	"github.com/example/furniture-shop/internal/model"
)

// ProductStore is the catalog persistence contract.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	List(ctx context.Context, f model.ProductFilter) ([]model.Product, int, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, slug string) error
}

// CartStore persists the single mutable cart per user.
type CartStore interface {
	// Get returns model.ErrCartNotFound when the user has no cart yet.
	Get(ctx context.Context, userID string) (*model.Cart, error)
	// Save upserts the cart, replacing its line items.
	Save(ctx context.Context, c *model.Cart) error
}

// OrderStore reads and updates finalized orders. Orders are only ever
// created through a CheckoutTx.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	// UpdateStatus persists only the status fields and DeliveredAt.
	UpdateStatus(ctx context.Context, o *model.Order) error
}

// UserStore is the account persistence contract.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	Delete(ctx context.Context, id string) error
}

// WishlistStore persists the per-user wishlist. Get returns an empty
// wishlist when none exists yet.
type WishlistStore interface {
	Get(ctx context.Context, userID string) (*model.Wishlist, error)
	Save(ctx context.Context, w *model.Wishlist) error
}

// CheckoutTx is the unit of work the checkout engine drives. Every read and
// write goes through the same database transaction; Commit and Rollback are
// the only two exit paths.
type CheckoutTx interface {
	CartItems(ctx context.Context, userID string) ([]model.CartItem, error)
	// ProductForUpdate fetches the product with a row lock so concurrent
	// checkouts against the same product serialize on its stock.
	ProductForUpdate(ctx context.Context, productID string) (*model.Product, error)
	UpdateProductStock(ctx context.Context, productID string, stock int) error
	InsertOrder(ctx context.Context, o *model.Order) error
	ClearCart(ctx context.Context, userID string) error
	Commit() error
	Rollback() error
}

// CheckoutBeginner opens checkout transactions.
type CheckoutBeginner interface {
	Begin(ctx context.Context) (CheckoutTx, error)
}
