// Package order exposes order history and admin status transitions.
package order

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/example/furniture-shop/internal/events"
	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store"
)

// StatusUpdate selects which status axis to change and its new value.
type StatusUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const (
	KeyStatus        = "status"
	KeyPaymentStatus = "paymentStatus"
)

// Service reads orders and applies admin status updates. Orders themselves
// are created only by the checkout engine.
type Service struct {
	orders    store.OrderStore
	publisher events.Publisher
}

func NewService(orders store.OrderStore, publisher events.Publisher) *Service {
	return &Service{orders: orders, publisher: publisher}
}

func (s *Service) Get(ctx context.Context, id string) (*model.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, err
}

func (s *Service) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, err
}

// UpdateStatus sets one status axis on an order. Fulfillment transitions are
// deliberately unconstrained so an admin can correct mistakes; the value
// itself must still be a known status. Setting the fulfillment status to
// Delivered stamps DeliveredAt; nothing else touches that field.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, upd StatusUpdate) (*model.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch upd.Key {
	case KeyStatus:
		if !model.ValidOrderStatus(upd.Value) {
			return nil, model.ErrInvalidStatus
		}
		o.Status = upd.Value
		if upd.Value == model.OrderStatusDelivered {
			now := time.Now()
			o.DeliveredAt = &now
		}
	case KeyPaymentStatus:
		if !model.ValidPaymentStatus(upd.Value) {
			return nil, model.ErrInvalidStatus
		}
		o.PaymentStatus = upd.Value
	default:
		return nil, model.ErrInvalidStatus
	}

	if err := s.orders.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, o)
	return o, nil
}

func (s *Service) publishUpdated(ctx context.Context, o *model.Order) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, o.ID, events.Envelope{
		Type: events.TypeOrderStatusUpdated,
		Data: events.OrderStatusUpdated{
			OrderID:       o.ID,
			UserID:        o.UserID,
			Status:        o.Status,
			PaymentStatus: o.PaymentStatus,
		},
	})
	if err != nil {
		log.WithError(err).WithField("order_id", o.ID).Error("publishing order.status_updated")
	}
}
