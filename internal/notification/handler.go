// Package notification turns order events into customer mail.
package notification

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/example/furniture-shop/internal/email"
	"github.com/example/furniture-shop/internal/events"
)

// Handler consumes the order topic and sends confirmation mail for
// order.placed events. The event carries everything the mail needs, so the
// notifier runs without a database connection.
type Handler struct {
	emails *email.Service
}

func NewHandler(emails *email.Service) *Handler {
	return &Handler{emails: emails}
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleMessage processes one Kafka record. Malformed payloads and mail
// failures are logged and swallowed so a bad record cannot wedge the
// consumer group.
func (h *Handler) HandleMessage(ctx context.Context, key, value []byte) error {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		log.WithError(err).WithField("key", string(key)).Warn("skipping undecodable event")
		return nil
	}

	if env.Type != events.TypeOrderPlaced {
		return nil
	}

	var placed events.OrderPlaced
	if err := json.Unmarshal(env.Data, &placed); err != nil {
		log.WithError(err).WithField("key", string(key)).Warn("skipping malformed order.placed event")
		return nil
	}
	return h.handleOrderPlaced(placed)
}

func (h *Handler) handleOrderPlaced(e events.OrderPlaced) error {
	logger := log.WithFields(log.Fields{
		"order_id": e.OrderID,
		"user_id":  e.UserID,
	})

	if e.UserEmail == "" {
		logger.Warn("order.placed event has no email address")
		return nil
	}

	items := make([]email.OrderItem, len(e.Items))
	for i, it := range e.Items {
		items[i] = email.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	err := h.emails.SendOrderConfirmation(e.UserEmail, email.ConfirmationOrder{
		OrderID:       e.OrderID,
		CustomerName:  e.UserName,
		Items:         items,
		TotalAmount:   e.TotalAmount,
		PaymentMethod: e.PaymentMethod,
	})
	if err != nil {
		logger.WithError(err).Error("sending order confirmation")
		return nil
	}

	logger.Info("order confirmation sent")
	return nil
}
