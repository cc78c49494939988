// Package storetest provides in-memory store implementations for tests.
package storetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/example/furniture-shop/internal/model"
	"github.com/example/furniture-shop/internal/store"
)

// Store holds shared in-memory state; the typed fields implement the store
// interfaces over it. Checkout transactions serialize on a single mutex,
// mirroring the serialization the Postgres implementation gets from
// SELECT ... FOR UPDATE row locks.
type Store struct {
	mu sync.Mutex

	products  map[string]*model.Product
	carts     map[string]*model.Cart
	orders    map[string]*model.Order
	users     map[string]*model.User
	wishlists map[string]*model.Wishlist

	txMu sync.Mutex

	Products  *Products
	Carts     *Carts
	Orders    *Orders
	Users     *Users
	Wishlists *Wishlists
}

func New() *Store {
	s := &Store{
		products:  make(map[string]*model.Product),
		carts:     make(map[string]*model.Cart),
		orders:    make(map[string]*model.Order),
		users:     make(map[string]*model.User),
		wishlists: make(map[string]*model.Wishlist),
	}
	s.Products = &Products{s: s}
	s.Carts = &Carts{s: s}
	s.Orders = &Orders{s: s}
	s.Users = &Users{s: s}
	s.Wishlists = &Wishlists{s: s}
	return s
}

var (
	_ store.ProductStore     = (*Products)(nil)
	_ store.CartStore        = (*Carts)(nil)
	_ store.OrderStore       = (*Orders)(nil)
	_ store.UserStore        = (*Users)(nil)
	_ store.WishlistStore    = (*Wishlists)(nil)
	_ store.CheckoutBeginner = (*Store)(nil)
)

func copyProduct(p *model.Product) *model.Product {
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	cp.Tags = append([]string(nil), p.Tags...)
	return &cp
}

func copyCart(c *model.Cart) *model.Cart {
	cp := *c
	cp.Items = append([]model.CartItem(nil), c.Items...)
	return &cp
}

func copyOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		cp.DeliveredAt = &t
	}
	return &cp
}

// Products implements store.ProductStore.
type Products struct{ s *Store }

func (f *Products) Create(ctx context.Context, p *model.Product) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.products {
		if existing.Slug == p.Slug {
			return model.ErrDuplicateProduct
		}
	}
	f.s.products[p.ID] = copyProduct(p)
	return nil
}

func (f *Products) GetByID(ctx context.Context, id string) (*model.Product, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (f *Products) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, p := range f.s.products {
		if p.Slug == slug {
			return copyProduct(p), nil
		}
	}
	return nil, model.ErrProductNotFound
}

func matchesFilter(p *model.Product, f model.ProductFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	haystack := strings.ToLower(p.Name + " " + p.Category + " " +
		strings.Join(p.Tags, " ") + " " + p.Description)
	for _, term := range strings.Fields(f.Search) {
		if !strings.Contains(haystack, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func (f *Products) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var matched []model.Product
	for _, p := range f.s.products {
		if matchesFilter(p, filter) {
			matched = append(matched, *copyProduct(p))
		}
	}
	total := len(matched)

	if filter.Limit > 0 {
		start := 0
		if filter.Page > 1 {
			start = (filter.Page - 1) * filter.Limit
		}
		if start > len(matched) {
			start = len(matched)
		}
		end := start + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (f *Products) Update(ctx context.Context, p *model.Product) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.products[p.ID]; !ok {
		return model.ErrProductNotFound
	}
	for id, existing := range f.s.products {
		if id != p.ID && existing.Slug == p.Slug {
			return model.ErrDuplicateProduct
		}
	}
	f.s.products[p.ID] = copyProduct(p)
	return nil
}

func (f *Products) Delete(ctx context.Context, slug string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, p := range f.s.products {
		if p.Slug == slug {
			delete(f.s.products, id)
			return nil
		}
	}
	return model.ErrProductNotFound
}

// Carts implements store.CartStore.
type Carts struct{ s *Store }

func (f *Carts) Get(ctx context.Context, userID string) (*model.Cart, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.carts[userID]
	if !ok {
		return nil, model.ErrCartNotFound
	}
	return copyCart(c), nil
}

func (f *Carts) Save(ctx context.Context, c *model.Cart) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.carts[c.UserID] = copyCart(c)
	return nil
}

// Orders implements store.OrderStore.
type Orders struct{ s *Store }

func (f *Orders) GetByID(ctx context.Context, id string) (*model.Order, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	o, ok := f.s.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (f *Orders) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []model.Order
	for _, o := range f.s.orders {
		if o.UserID == userID {
			out = append(out, *copyOrder(o))
		}
	}
	return out, nil
}

func (f *Orders) ListAll(ctx context.Context) ([]model.Order, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []model.Order
	for _, o := range f.s.orders {
		out = append(out, *copyOrder(o))
	}
	return out, nil
}

func (f *Orders) UpdateStatus(ctx context.Context, o *model.Order) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	existing, ok := f.s.orders[o.ID]
	if !ok {
		return model.ErrOrderNotFound
	}
	existing.Status = o.Status
	existing.PaymentStatus = o.PaymentStatus
	existing.DeliveredAt = o.DeliveredAt
	return nil
}

// Users implements store.UserStore.
type Users struct{ s *Store }

func (f *Users) Create(ctx context.Context, u *model.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.users {
		if existing.Email == u.Email {
			return model.ErrDuplicateEmail
		}
	}
	cp := *u
	f.s.users[u.ID] = &cp
	return nil
}

func (f *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *Users) List(ctx context.Context) ([]model.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []model.User
	for _, u := range f.s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *Users) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *Users) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

func (f *Users) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(f.s.users, id)
	return nil
}

// Wishlists implements store.WishlistStore.
type Wishlists struct{ s *Store }

func (f *Wishlists) Get(ctx context.Context, userID string) (*model.Wishlist, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	w, ok := f.s.wishlists[userID]
	if !ok {
		return &model.Wishlist{UserID: userID}, nil
	}
	cp := *w
	cp.Items = append([]string(nil), w.Items...)
	return &cp, nil
}

func (f *Wishlists) Save(ctx context.Context, w *model.Wishlist) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *w
	cp.Items = append([]string(nil), w.Items...)
	f.s.wishlists[w.UserID] = &cp
	return nil
}

// SeedOrder installs an order directly, bypassing checkout. Test setup only.
func (s *Store) SeedOrder(o *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = copyOrder(o)
}

// Checkout transactions

// Begin acquires the transaction lock; store state only changes through this
// tx until it commits or rolls back.
func (s *Store) Begin(ctx context.Context) (store.CheckoutTx, error) {
	s.txMu.Lock()
	return &checkoutTx{
		s:            s,
		stagedStocks: make(map[string]int),
	}, nil
}

type checkoutTx struct {
	s            *Store
	stagedStocks map[string]int
	stagedOrder  *model.Order
	clearedCart  string
	done         bool
}

func (t *checkoutTx) CartItems(ctx context.Context, userID string) ([]model.CartItem, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	c, ok := t.s.carts[userID]
	if !ok {
		return nil, nil
	}
	return append([]model.CartItem(nil), c.Items...), nil
}

func (t *checkoutTx) ProductForUpdate(ctx context.Context, productID string) (*model.Product, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	p, ok := t.s.products[productID]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	cp := copyProduct(p)
	if staged, ok := t.stagedStocks[productID]; ok {
		cp.Stock = staged
	}
	return cp, nil
}

func (t *checkoutTx) UpdateProductStock(ctx context.Context, productID string, stock int) error {
	t.stagedStocks[productID] = stock
	return nil
}

func (t *checkoutTx) InsertOrder(ctx context.Context, o *model.Order) error {
	t.stagedOrder = copyOrder(o)
	return nil
}

func (t *checkoutTx) ClearCart(ctx context.Context, userID string) error {
	t.clearedCart = userID
	return nil
}

func (t *checkoutTx) Commit() error {
	t.s.mu.Lock()
	for id, stock := range t.stagedStocks {
		if p, ok := t.s.products[id]; ok {
			p.Stock = stock
			p.UpdatedAt = time.Now()
		}
	}
	if t.stagedOrder != nil {
		t.s.orders[t.stagedOrder.ID] = t.stagedOrder
	}
	if t.clearedCart != "" {
		if c, ok := t.s.carts[t.clearedCart]; ok {
			c.Items = nil
		}
	}
	t.s.mu.Unlock()

	t.finish()
	return nil
}

func (t *checkoutTx) Rollback() error {
	t.finish()
	return nil
}

func (t *checkoutTx) finish() {
	if !t.done {
		t.done = true
		t.s.txMu.Unlock()
	}
}
