package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/example/furniture-shop/internal/model"
)

// PostgresOrderStore implements OrderStore on PostgreSQL.
type PostgresOrderStore struct {
	db *sql.DB
}

func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

const orderColumns = `id, user_id, total_amount, payment_method, payment_status, status,
	ship_full_name, ship_phone, ship_address, ship_city, ship_state, ship_postal_code, ship_country,
	delivered_at, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.PaymentMethod, &o.PaymentStatus, &o.Status,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Phone, &o.ShippingAddress.Address,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country, &o.DeliveredAt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PostgresOrderStore) GetByID(ctx context.Context, id string) (*model.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	if err := s.attachItems(ctx, []*model.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PostgresOrderStore) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return s.list(ctx, `WHERE user_id = $1`, userID)
}

func (s *PostgresOrderStore) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.list(ctx, ``)
}

func (s *PostgresOrderStore) list(ctx context.Context, where string, args ...any) ([]model.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var ptrs []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		ptrs = append(ptrs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, ptrs); err != nil {
		return nil, err
	}

	orders := make([]model.Order, len(ptrs))
	for i, o := range ptrs {
		orders[i] = *o
	}
	return orders, nil
}

func (s *PostgresOrderStore) attachItems(ctx context.Context, orders []*model.Order) error {
	byID := make(map[string]*model.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, product_id, quantity FROM order_items
		WHERE order_id = ANY($1) ORDER BY order_id, position
	`, pq.Array(ids))
	if err != nil {
		return errors.Wrap(err, "list order items")
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var it model.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity); err != nil {
			return errors.Wrap(err, "scan order item")
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func (s *PostgresOrderStore) UpdateStatus(ctx context.Context, o *model.Order) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, payment_status = $3, delivered_at = $4
		WHERE id = $1
	`, o.ID, o.Status, o.PaymentStatus, o.DeliveredAt)
	if err != nil {
		return errors.Wrap(err, "update order status")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}
