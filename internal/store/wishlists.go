package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/example/furniture-shop/internal/model"
)

// PostgresWishlistStore implements WishlistStore on PostgreSQL.
type PostgresWishlistStore struct {
	db *sql.DB
}

func NewPostgresWishlistStore(db *sql.DB) *PostgresWishlistStore {
	return &PostgresWishlistStore{db: db}
}

// Get returns the user's wishlist, empty when nothing is saved.
func (s *PostgresWishlistStore) Get(ctx context.Context, userID string) (*model.Wishlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id FROM wishlist_items
		WHERE user_id = $1 ORDER BY added_at
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "get wishlist")
	}
	defer rows.Close()

	w := &model.Wishlist{UserID: userID}
	for rows.Next() {
		var productID string
		if err := rows.Scan(&productID); err != nil {
			return nil, errors.Wrap(err, "scan wishlist item")
		}
		w.Items = append(w.Items, productID)
	}
	return w, rows.Err()
}

// Save replaces the user's saved products with w.Items.
func (s *PostgresWishlistStore) Save(ctx context.Context, w *model.Wishlist) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin save wishlist")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wishlist_items WHERE user_id = $1`, w.UserID); err != nil {
		return errors.Wrap(err, "clear wishlist")
	}
	for _, productID := range w.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)
		`, w.UserID, productID); err != nil {
			return errors.Wrap(err, "insert wishlist item")
		}
	}

	return errors.Wrap(tx.Commit(), "commit save wishlist")
}
