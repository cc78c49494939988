package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout.
const (
	PaymentCOD        = "COD"
	PaymentUPI        = "UPI"
	PaymentCreditCard = "Credit Card"
	PaymentDebitCard  = "Debit Card"
)

// Payment status values.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"
)

// Order fulfillment status values.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusInTransit  = "In-Transit"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCOD, PaymentUPI, PaymentCreditCard, PaymentDebitCard:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// ValidOrderStatus reports whether s is a known fulfillment status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusInTransit, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// User is a registered account. Identity is the unique email.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Product is a catalog entry. Identity is the unique slug derived from name.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Images      []string        `json:"images"`
	Tags        []string        `json:"tags"`
	Rating      decimal.Decimal `json:"rating"`
	NumReviews  int             `json:"numReviews"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CartItem is one (product, quantity) pair in a cart.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the per-user mutable list of desired items. At most one per user;
// no two items reference the same product.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Item returns the index of the item for productID, or -1.
func (c *Cart) Item(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// ShippingAddress is the structured delivery address captured at checkout.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Complete reports whether every required field is present.
func (a ShippingAddress) Complete() bool {
	return a.FullName != "" && a.Address != "" && a.City != "" &&
		a.State != "" && a.PostalCode != "" && a.Country != ""
}

// OrderItem is a purchased line item, captured at checkout time.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Order is a finalized purchase. Items and TotalAmount are immutable after
// creation; only the two status fields and DeliveredAt may change.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Wishlist is the per-user list of saved products, no quantities, no
// duplicates.
type Wishlist struct {
	UserID    string   `json:"userId"`
	Items     []string `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Has reports whether productID is already saved.
func (w *Wishlist) Has(productID string) bool {
	for _, id := range w.Items {
		if id == productID {
			return true
		}
	}
	return false
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string
	Page     int
	Limit    int
}
