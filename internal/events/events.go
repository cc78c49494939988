// Package events defines the order event stream and its Kafka transport.
package events

import (
	"context"

	"github.com/shopspring/decimal"
)

// Event types carried on the order topic.
const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusUpdated = "order.status_updated"
)

// Envelope wraps every published payload.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// OrderItem is a purchased line as carried in events.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderPlaced is published after a checkout transaction commits. A payment
// confirmer or notifier picks it up asynchronously; nothing downstream runs
// inside the checkout transaction.
type OrderPlaced struct {
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	UserEmail     string          `json:"user_email"`
	UserName      string          `json:"user_name"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
}

// OrderStatusUpdated is published when an admin changes an order's status.
type OrderStatusUpdated struct {
	OrderID       string `json:"order_id"`
	UserID        string `json:"user_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// Publisher is the producer contract services depend on.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}
