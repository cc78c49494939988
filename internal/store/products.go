package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/example/furniture-shop/internal/model"
)

// PostgresProductStore implements ProductStore on PostgreSQL.
type PostgresProductStore struct {
	db *sql.DB
}

func NewPostgresProductStore(db *sql.DB) *PostgresProductStore {
	return &PostgresProductStore{db: db}
}

const productColumns = `id, name, slug, description, price, stock, category, brand, images, tags, rating, num_reviews, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
		&p.Category, &p.Brand, pq.Array(&p.Images), pq.Array(&p.Tags),
		&p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresProductStore) Create(ctx context.Context, p *model.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, slug, description, price, stock, category, brand, images, tags, rating, num_reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, p.ID, p.Name, p.Slug, p.Description, p.Price, p.Stock, p.Category, p.Brand,
		pq.Array(p.Images), pq.Array(p.Tags), p.Rating, p.NumReviews, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateProduct
	}
	if err != nil {
		return errors.Wrap(err, "insert product")
	}
	return nil
}

func (s *PostgresProductStore) GetByID(ctx context.Context, id string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	return p, nil
}

func (s *PostgresProductStore) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get product by slug")
	}
	return p, nil
}

// buildListFilter renders the WHERE clause for a catalog listing. Each
// whitespace-separated search term must match at least one of name, category,
// tags or description, case-insensitively.
func buildListFilter(f model.ProductFilter) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(*f.MaxPrice))
	}
	for _, term := range strings.Fields(f.Search) {
		pattern := arg("%" + term + "%")
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE %[1]s OR category ILIKE %[1]s OR array_to_string(tags, ' ') ILIKE %[1]s OR description ILIKE %[1]s)",
			pattern))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *PostgresProductStore) List(ctx context.Context, f model.ProductFilter) ([]model.Product, int, error) {
	where, args := buildListFilter(f)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if f.Page > 1 {
			args = append(args, (f.Page-1)*f.Limit)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan product")
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

func (s *PostgresProductStore) Update(ctx context.Context, p *model.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			name = $2, slug = $3, description = $4, price = $5, stock = $6,
			category = $7, brand = $8, images = $9, tags = $10,
			rating = $11, num_reviews = $12, updated_at = $13
		WHERE id = $1
	`, p.ID, p.Name, p.Slug, p.Description, p.Price, p.Stock, p.Category, p.Brand,
		pq.Array(p.Images), pq.Array(p.Tags), p.Rating, p.NumReviews, p.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateProduct
	}
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (s *PostgresProductStore) Delete(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE slug = $1`, slug)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
