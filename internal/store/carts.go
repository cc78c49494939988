package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/example/furniture-shop/internal/model"
)

// PostgresCartStore implements CartStore on PostgreSQL.
type PostgresCartStore struct {
	db *sql.DB
}

func NewPostgresCartStore(db *sql.DB) *PostgresCartStore {
	return &PostgresCartStore{db: db}
}

func (s *PostgresCartStore) Get(ctx context.Context, userID string) (*model.Cart, error) {
	c := &model.Cart{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM carts WHERE user_id = $1`, userID).Scan(&c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrCartNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, quantity FROM cart_items
		WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart items")
	}
	defer rows.Close()

	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, errors.Wrap(err, "scan cart item")
		}
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

// Save upserts the cart row and replaces its line items. Last write wins;
// concurrent edits to the same cart are not serialized.
func (s *PostgresCartStore) Save(ctx context.Context, c *model.Cart) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin save cart")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO carts (user_id, updated_at) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`, c.UserID, c.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "upsert cart")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, c.UserID); err != nil {
		return errors.Wrap(err, "clear cart items")
	}

	for i, it := range c.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (user_id, product_id, quantity, position)
			VALUES ($1, $2, $3, $4)
		`, c.UserID, it.ProductID, it.Quantity, i)
		if err != nil {
			return errors.Wrap(err, "insert cart item")
		}
	}

	return errors.Wrap(tx.Commit(), "commit save cart")
}
