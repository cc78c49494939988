package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/example/furniture-shop/internal/model"
)

// PostgresUserStore implements UserStore on PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const userColumns = `id, name, email, password_hash, is_admin, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) Create(ctx context.Context, u *model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateEmail
	}
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user by email")
	}
	return u, nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	return u, nil
}

func (s *PostgresUserStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *PostgresUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.updateOne(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

func (s *PostgresUserStore) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	return s.updateOne(ctx, `UPDATE users SET is_admin = $2 WHERE id = $1`, id, isAdmin)
}

func (s *PostgresUserStore) Delete(ctx context.Context, id string) error {
	return s.updateOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (s *PostgresUserStore) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "update user")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
