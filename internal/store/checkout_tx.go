package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/example/furniture-shop/internal/model"
)

// PostgresCheckout opens checkout transactions against the live database.
type PostgresCheckout struct {
	db *sql.DB
}

func NewPostgresCheckout(db *sql.DB) *PostgresCheckout {
	return &PostgresCheckout{db: db}
}

func (c *PostgresCheckout) Begin(ctx context.Context) (CheckoutTx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin checkout tx")
	}
	return &postgresCheckoutTx{tx: tx}, nil
}

type postgresCheckoutTx struct {
	tx *sql.Tx
}

func (t *postgresCheckoutTx) CartItems(ctx context.Context, userID string) ([]model.CartItem, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT product_id, quantity FROM cart_items
		WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "checkout cart items")
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, errors.Wrap(err, "scan checkout cart item")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ProductForUpdate takes a row lock so a concurrent checkout of the same
// product blocks here until this transaction commits or rolls back.
func (t *postgresCheckoutTx) ProductForUpdate(ctx context.Context, productID string) (*model.Product, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, productID)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "lock product")
	}
	return p, nil
}

func (t *postgresCheckoutTx) UpdateProductStock(ctx context.Context, productID string, stock int) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE products SET stock = $2, updated_at = NOW() WHERE id = $1`, productID, stock)
	return errors.Wrap(err, "update stock")
}

func (t *postgresCheckoutTx) InsertOrder(ctx context.Context, o *model.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total_amount, payment_method, payment_status, status,
			ship_full_name, ship_phone, ship_address, ship_city, ship_state, ship_postal_code, ship_country,
			created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, o.ID, o.UserID, o.TotalAmount, o.PaymentMethod, o.PaymentStatus, o.Status,
		o.ShippingAddress.FullName, o.ShippingAddress.Phone, o.ShippingAddress.Address,
		o.ShippingAddress.City, o.ShippingAddress.State, o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country, o.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	for i, it := range o.Items {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, position)
			VALUES ($1, $2, $3, $4)
		`, o.ID, it.ProductID, it.Quantity, i)
		if err != nil {
			return errors.Wrap(err, "insert order item")
		}
	}
	return nil
}

// ClearCart empties the cart but keeps the cart row.
func (t *postgresCheckoutTx) ClearCart(ctx context.Context, userID string) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	_, err := t.tx.ExecContext(ctx,
		`UPDATE carts SET updated_at = NOW() WHERE user_id = $1`, userID)
	return errors.Wrap(err, "touch cart")
}

func (t *postgresCheckoutTx) Commit() error {
	return errors.Wrap(t.tx.Commit(), "commit checkout")
}

func (t *postgresCheckoutTx) Rollback() error {
	return t.tx.Rollback()
}
