// Package checkout converts a user's cart into a durable order while keeping
// catalog stock and cart contents consistent with the outcome.
package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/example/furniture-shop/internal/events"
	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store"
)

// Request is the validated checkout input.
type Request struct {
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
}

// Validate normalizes the request. An omitted payment method defaults to COD.
func (r *Request) Validate() error {
	if r.PaymentMethod == "" {
		r.PaymentMethod = model.PaymentCOD
	}
	if !model.ValidPaymentMethod(r.PaymentMethod) {
		return model.ErrInvalidPayment
	}
	if !r.ShippingAddress.Complete() {
		return model.ErrInvalidAddress
	}
	return nil
}

// Engine runs the checkout transaction.
type Engine struct {
	checkout  store.CheckoutBeginner
	users     store.UserStore
	publisher events.Publisher
}

func NewEngine(checkout store.CheckoutBeginner, users store.UserStore, publisher events.Publisher) *Engine {
	return &Engine{checkout: checkout, users: users, publisher: publisher}
}

// Checkout validates the cart against live stock, decrements inventory,
// totals the order at current prices, persists it and empties the cart, all
// inside one transaction. On any failure the transaction rolls back and the
// cart and catalog are left exactly as before the call.
func (e *Engine) Checkout(ctx context.Context, userID string, req Request) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := e.checkout.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cartItems, err := tx.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, model.ErrEmptyCart
	}

	total := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	eventItems := make([]events.OrderItem, 0, len(cartItems))

	for _, item := range cartItems {
		// Re-fetch inside the transaction so the stock read is isolated
		// from concurrent checkouts.
		p, err := tx.ProductForUpdate(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if item.Quantity > p.Stock {
			return nil, &model.InsufficientStockError{ProductName: p.Name, Available: p.Stock}
		}

		if err := tx.UpdateProductStock(ctx, p.ID, p.Stock-item.Quantity); err != nil {
			return nil, err
		}

		// Unit price comes from the live product, not the cart, so price
		// changes since add-to-cart are honored.
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, model.OrderItem{
			ProductID: p.ID,
			Quantity:  item.Quantity,
		})
		eventItems = append(eventItems, events.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			UnitPrice: p.Price,
		})
	}

	paymentStatus := model.PaymentStatusPending
	if req.PaymentMethod != model.PaymentCOD {
		// Optimistic placeholder until a payment confirmer consumes the
		// order.placed event.
		paymentStatus = model.PaymentStatusPaid
	}

	order := &model.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           orderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Status:          model.OrderStatusProcessing,
		TotalAmount:     total,
		CreatedAt:       time.Now(),
	}

	if err := tx.InsertOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := tx.ClearCart(ctx, userID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	e.publishPlaced(ctx, order, user, eventItems)

	return order, nil
}

// publishPlaced emits the post-commit event. Failures are logged, not
// surfaced; the order is already durable.
func (e *Engine) publishPlaced(ctx context.Context, o *model.Order, u *model.User, items []events.OrderItem) {
	if e.publisher == nil {
		return
	}
	err := e.publisher.Publish(ctx, o.ID, events.Envelope{
		Type: events.TypeOrderPlaced,
		Data: events.OrderPlaced{
			OrderID:       o.ID,
			UserID:        o.UserID,
			UserEmail:     u.Email,
			UserName:      u.Name,
			Items:         items,
			TotalAmount:   o.TotalAmount,
			PaymentMethod: o.PaymentMethod,
			PaymentStatus: o.PaymentStatus,
		},
	})
	if err != nil {
		log.WithError(err).WithField("order_id", o.ID).Error("publishing order.placed")
	}
}
