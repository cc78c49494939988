package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store/storetest"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func testAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:   "Asha Rao",
		Phone:      "555-0101",
		Address:    "12 Teak Lane",
		City:       "Pune",
		State:      "MH",
		PostalCode: "411001",
		Country:    "India",
	}
}

func seedUser(t *testing.T, s *storetest.Store) string {
	t.Helper()
	id := uuid.New().String()
	err := s.Users.Create(context.Background(), &model.User{
		ID:        id,
		Name:      "Asha Rao",
		Email:     "asha@example.com",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return id
}

func seedProduct(t *testing.T, s *storetest.Store, name string, price float64, stock int) string {
	t.Helper()
	id := uuid.New().String()
	err := s.Products.Create(context.Background(), &model.Product{
		ID:    id,
		Name:  name,
		Slug:  name,
		Price: decimal.NewFromFloat(price),
		Stock: stock,
	})
	require.NoError(t, err)
	return id
}

func setCart(t *testing.T, s *storetest.Store, userID string, items ...model.CartItem) {
	t.Helper()
	err := s.Carts.Save(context.Background(), &model.Cart{UserID: userID, Items: items})
	require.NoError(t, err)
}

func stockOf(t *testing.T, s *storetest.Store, productID string) int {
	t.Helper()
	p, err := s.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func TestCheckout_Success(t *testing.T) {
	s := storetest.New()
	pub := &recordingPublisher{}
	engine := NewEngine(s, s.Users, pub)
	ctx := context.Background()

	userID := seedUser(t, s)
	productA := seedProduct(t, s, "oak-chair", 10, 5)
	productB := seedProduct(t, s, "pine-table", 20, 5)
	setCart(t, s, userID,
		model.CartItem{ProductID: productA, Quantity: 2},
		model.CartItem{ProductID: productB, Quantity: 1},
	)

	order, err := engine.Checkout(ctx, userID, Request{ShippingAddress: testAddress()})

	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(40)), "total = %s", order.TotalAmount)
	assert.Equal(t, model.OrderStatusProcessing, order.Status)
	assert.Len(t, order.Items, 2)

	assert.Equal(t, 3, stockOf(t, s, productA))
	assert.Equal(t, 4, stockOf(t, s, productB))

	cart, err := s.Carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	persisted, err := s.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, persisted.TotalAmount.Equal(decimal.NewFromInt(40)))

	assert.Len(t, pub.events, 1)
}

func TestCheckout_InsufficientStock_RollsBack(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)
	ctx := context.Background()

	userID := seedUser(t, s)
	productA := seedProduct(t, s, "oak-chair", 10, 3)
	setCart(t, s, userID, model.CartItem{ProductID: productA, Quantity: 5})

	order, err := engine.Checkout(ctx, userID, Request{ShippingAddress: testAddress()})

	require.Error(t, err)
	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "oak-chair", stockErr.ProductName)
	assert.Equal(t, 3, stockErr.Available)
	assert.Nil(t, order)

	assert.Equal(t, 3, stockOf(t, s, productA))

	orders, err := s.Orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	cart, err := s.Carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCheckout_PartialFailure_NothingPersists(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)
	ctx := context.Background()

	userID := seedUser(t, s)
	productA := seedProduct(t, s, "oak-chair", 10, 5)
	productB := seedProduct(t, s, "pine-table", 20, 5)
	productC := seedProduct(t, s, "walnut-desk", 50, 1)
	setCart(t, s, userID,
		model.CartItem{ProductID: productA, Quantity: 2},
		model.CartItem{ProductID: productB, Quantity: 2},
		model.CartItem{ProductID: productC, Quantity: 3},
	)

	_, err := engine.Checkout(ctx, userID, Request{ShippingAddress: testAddress()})

	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// Decrements from the first two lines must not survive the rollback.
	assert.Equal(t, 5, stockOf(t, s, productA))
	assert.Equal(t, 5, stockOf(t, s, productB))
	assert.Equal(t, 1, stockOf(t, s, productC))
}

func TestCheckout_ProductDeleted_RollsBack(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)
	ctx := context.Background()

	userID := seedUser(t, s)
	productA := seedProduct(t, s, "oak-chair", 10, 5)
	setCart(t, s, userID,
		model.CartItem{ProductID: productA, Quantity: 1},
		model.CartItem{ProductID: uuid.New().String(), Quantity: 1},
	)

	_, err := engine.Checkout(ctx, userID, Request{ShippingAddress: testAddress()})

	assert.ErrorIs(t, err, model.ErrProductNotFound)
	assert.Equal(t, 5, stockOf(t, s, productA))
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)
	ctx := context.Background()

	userID := seedUser(t, s)
	setCart(t, s, userID)

	order, err := engine.Checkout(ctx, userID, Request{ShippingAddress: testAddress()})

	assert.ErrorIs(t, err, model.ErrEmptyCart)
	assert.Nil(t, order)
}

func TestCheckout_NoCart(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)

	userID := seedUser(t, s)

	_, err := engine.Checkout(context.Background(), userID, Request{ShippingAddress: testAddress()})

	assert.ErrorIs(t, err, model.ErrEmptyCart)
}

func TestCheckout_UnknownUser(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)

	_, err := engine.Checkout(context.Background(), uuid.New().String(), Request{ShippingAddress: testAddress()})

	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestCheckout_PaymentStatus(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{model.PaymentCOD, model.PaymentStatusPending},
		{model.PaymentUPI, model.PaymentStatusPaid},
		{model.PaymentCreditCard, model.PaymentStatusPaid},
		{"", model.PaymentStatusPending}, // defaults to COD
	}

	for _, tt := range tests {
		t.Run("method="+tt.method, func(t *testing.T) {
			s := storetest.New()
			engine := NewEngine(s, s.Users, nil)
			ctx := context.Background()

			userID := seedUser(t, s)
			productA := seedProduct(t, s, "oak-chair", 10, 5)
			setCart(t, s, userID, model.CartItem{ProductID: productA, Quantity: 1})

			order, err := engine.Checkout(ctx, userID, Request{
				ShippingAddress: testAddress(),
				PaymentMethod:   tt.method,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, order.PaymentStatus)
		})
	}
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)

	userID := seedUser(t, s)

	_, err := engine.Checkout(context.Background(), userID, Request{
		ShippingAddress: testAddress(),
		PaymentMethod:   "Barter",
	})

	assert.ErrorIs(t, err, model.ErrInvalidPayment)
}

func TestCheckout_IncompleteAddress(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)

	userID := seedUser(t, s)

	addr := testAddress()
	addr.City = ""
	_, err := engine.Checkout(context.Background(), userID, Request{ShippingAddress: addr})

	assert.ErrorIs(t, err, model.ErrInvalidAddress)
}

func TestCheckout_PriceSnapshotAtCheckoutTime(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)
	ctx := context.Background()

	userID := seedUser(t, s)
	productA := seedProduct(t, s, "oak-chair", 10, 5)
	setCart(t, s, userID, model.CartItem{ProductID: productA, Quantity: 2})

	// Price changes between add-to-cart and checkout.
	p, err := s.Products.GetByID(ctx, productA)
	require.NoError(t, err)
	p.Price = decimal.NewFromInt(15)
	require.NoError(t, s.Products.Update(ctx, p))

	order, err := engine.Checkout(ctx, userID, Request{ShippingAddress: testAddress()})

	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(30)), "total = %s", order.TotalAmount)
}

func TestCheckout_ConcurrentCheckouts_NeverOversell(t *testing.T) {
	s := storetest.New()
	engine := NewEngine(s, s.Users, nil)
	ctx := context.Background()

	productA := seedProduct(t, s, "oak-chair", 10, 10)

	userA := seedUser(t, s)
	userB := uuid.New().String()
	require.NoError(t, s.Users.Create(ctx, &model.User{
		ID: userB, Name: "Ben", Email: "ben@example.com", CreatedAt: time.Now(),
	}))

	setCart(t, s, userA, model.CartItem{ProductID: productA, Quantity: 6})
	setCart(t, s, userB, model.CartItem{ProductID: productA, Quantity: 6})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, uid := range []string{userA, userB} {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			_, errs[i] = engine.Checkout(ctx, uid, Request{ShippingAddress: testAddress()})
		}(i, uid)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var stockErr *model.InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
			assert.Equal(t, 4, stockErr.Available)
			failed++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one checkout must win")
	assert.Equal(t, 1, failed)

	assert.Equal(t, 4, stockOf(t, s, productA))
}
