package model

import (
	"errors"
	"fmt"
)

// Shared error taxonomy. Services and stores return these; the HTTP layer
// maps them to status codes.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateProduct  = errors.New("product already exists")
	ErrCartNotFound      = errors.New("cart not found")
	ErrItemNotFound      = errors.New("product not found in cart")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("user already exists")
	ErrWishlistDuplicate = errors.New("product already in the wishlist")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrInvalidAddress    = errors.New("shipping address is incomplete")
	ErrInvalidStatus     = errors.New("invalid order status")
)

// InsufficientStockError reports a checkout or add-to-cart attempt asking for
// more units than are available.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s, available: %d", e.ProductName, e.Available)
}
