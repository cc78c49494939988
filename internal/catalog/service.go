// Package catalog manages the product catalog.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store"
)

var (
	ErrInvalidName     = errors.New("product name is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrInvalidCategory = errors.New("category is required")
)

const defaultPageSize = 8

// Service implements admin CRUD and public catalog reads.
type Service struct {
	products store.ProductStore
}

func NewService(products store.ProductStore) *Service {
	return &Service{products: products}
}

// CreateInput is the validated input for a new product.
type CreateInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Tags        []string        `json:"tags"`
	Images      []string        `json:"images"`
}

func (in *CreateInput) validate() error {
	if in.Name == "" {
		return ErrInvalidName
	}
	if in.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if in.Stock < 0 {
		return ErrInvalidStock
	}
	if in.Category == "" {
		return ErrInvalidCategory
	}
	return nil
}

// Create adds a product. The slug is derived from the name; a clash with an
// existing product fails with model.ErrDuplicateProduct.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		Brand:       in.Brand,
		Tags:        in.Tags,
		Images:      in.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetBySlug(ctx context.Context, productSlug string) (*model.Product, error) {
	return s.products.GetBySlug(ctx, productSlug)
}

// ListResult is one page of a catalog listing.
type ListResult struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
}

// List returns a filtered, paginated catalog page.
func (s *Service) List(ctx context.Context, f model.ProductFilter) (*ListResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}

	products, total, err := s.products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}

	return &ListResult{
		Products: products,
		Total:    total,
		Page:     f.Page,
		Pages:    (total + f.Limit - 1) / f.Limit,
	}, nil
}

// UpdateInput holds optional field updates; nil fields are left untouched.
type UpdateInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
	Brand       *string          `json:"brand"`
	Tags        *[]string        `json:"tags"`
	Images      *[]string        `json:"images"`
}

// Update applies the given fields to the product identified by slug. A name
// change re-derives the slug.
func (s *Service) Update(ctx context.Context, productSlug string, in UpdateInput) (*model.Product, error) {
	p, err := s.products.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, ErrInvalidName
		}
		p.Name = *in.Name
		p.Slug = slug.Make(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, ErrInvalidPrice
		}
		p.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, ErrInvalidStock
		}
		p.Stock = *in.Stock
	}
	if in.Category != nil {
		if *in.Category == "" {
			return nil, ErrInvalidCategory
		}
		p.Category = *in.Category
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	p.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, productSlug string) error {
	return s.products.Delete(ctx, productSlug)
}
