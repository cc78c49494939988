package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/furniture-shop/internal/cart"
	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store/storetest"
)

func newTestService(t *testing.T) (*Service, *storetest.Store, *model.Product) {
	t.Helper()
	s := storetest.New()

	p := &model.Product{
		ID:        uuid.New().String(),
		Name:      "Oak Chair",
		Slug:      "oak-chair",
		Category:  "Chairs",
		Price:     decimal.NewFromInt(120),
		Stock:     10,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.Products.Create(context.Background(), p))

	carts := cart.NewService(s.Carts, s.Products)
	return NewService(s.Wishlists, s.Products, carts), s, p
}

func TestAdd(t *testing.T) {
	svc, _, p := newTestService(t)
	ctx := context.Background()

	w, err := svc.Add(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, w.Items)
}

func TestAdd_Duplicate(t *testing.T) {
	svc, _, p := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "user-1", p.ID)
	require.NoError(t, err)

	_, err = svc.Add(ctx, "user-1", p.ID)
	assert.ErrorIs(t, err, model.ErrWishlistDuplicate)
}

func TestAdd_UnknownProduct(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Add(context.Background(), "user-1", uuid.New().String())
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestGet_AbsentIsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	w, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, w.Items)
}

func TestRemove(t *testing.T) {
	svc, _, p := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "user-1", p.ID)
	require.NoError(t, err)

	w, err := svc.Remove(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.Empty(t, w.Items)
}

func TestRemove_AbsentIsIdempotent(t *testing.T) {
	svc, _, p := newTestService(t)

	w, err := svc.Remove(context.Background(), "user-1", p.ID)
	require.NoError(t, err)
	assert.Empty(t, w.Items)
}

func TestMoveToCart(t *testing.T) {
	svc, s, p := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "user-1", p.ID)
	require.NoError(t, err)

	w, err := svc.MoveToCart(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.Empty(t, w.Items)

	c, err := s.Carts.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, p.ID, c.Items[0].ProductID)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestMoveToCart_NotInWishlist(t *testing.T) {
	svc, _, p := newTestService(t)

	_, err := svc.MoveToCart(context.Background(), "user-1", p.ID)
	assert.ErrorIs(t, err, model.ErrItemNotFound)
}

func TestMoveToCart_OutOfStock(t *testing.T) {
	svc, s, _ := newTestService(t)
	ctx := context.Background()

	gone := &model.Product{
		ID:        uuid.New().String(),
		Name:      "Walnut Desk",
		Slug:      "walnut-desk",
		Category:  "Desks",
		Price:     decimal.NewFromInt(300),
		Stock:     0,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.Products.Create(ctx, gone))

	_, err := svc.Add(ctx, "user-1", gone.ID)
	require.NoError(t, err)

	_, err = svc.MoveToCart(ctx, "user-1", gone.ID)
	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	w, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{gone.ID}, w.Items, "item stays saved when the move fails")
}

func TestResolve_DropsDeletedProducts(t *testing.T) {
	svc, s, p := newTestService(t)
	ctx := context.Background()

	other := &model.Product{
		ID:        uuid.New().String(),
		Name:      "Pine Shelf",
		Slug:      "pine-shelf",
		Category:  "Storage",
		Price:     decimal.NewFromInt(80),
		Stock:     4,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.Products.Create(ctx, other))

	_, err := svc.Add(ctx, "user-1", p.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "user-1", other.ID)
	require.NoError(t, err)

	require.NoError(t, s.Products.Delete(ctx, other.Slug))

	w, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)

	products, err := svc.Resolve(ctx, w)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
}
