// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu     sync.Mutex
	users  []*domain.User
	items  []domain.Item
	carts  map[string]*domain.Cart
	orders []domain.Order

	userIDCounter int64
}

// New creates a new in-memory database seeded with the default catalogue.
func New() *DB {
	return NewWithItems(domain.DefaultItems())
}

// NewWithItems creates a new in-memory database with the given catalogue.
func NewWithItems(items []domain.Item) *DB {
	db := &DB{carts: make(map[string]*domain.Cart)}
	db.items = append(db.items, items...)
	return db
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.ItemRepository = (*DB)(nil)
var _ domain.CartRepository = (*DB)(nil)
var _ domain.OrderRepository = (*DB)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			ret := *u
			return &ret, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			ret := *u
			return &ret, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, domain.ErrUsernameTaken
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	ret := *u
	return &ret, nil
}

// --- ItemRepository ---

// GetItem returns the item with the given id.
func (db *DB) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, it := range db.items {
		if it.ID == id {
			ret := it
			return &ret, nil
		}
	}
	return nil, nil
}

// ListItems returns the whole catalogue ordered by id.
func (db *DB) ListItems(ctx context.Context) ([]domain.Item, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Item, len(db.items))
	copy(out, db.items)
	return out, nil
}

// FindItemsByName returns the items whose name matches exactly.
func (db *DB) FindItemsByName(ctx context.Context, name string) ([]domain.Item, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Item
	for _, it := range db.items {
		if it.Name == name {
			out = append(out, it)
		}
	}
	return out, nil
}

// --- CartRepository ---

// GetCart returns a copy of the user's cart, or an empty cart.
func (db *DB) GetCart(ctx context.Context, username string) (*domain.Cart, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.carts[username]
	if !ok {
		return domain.NewCart(username, nil), nil
	}
	return domain.NewCart(c.Owner, c.Items), nil
}

// SaveCart replaces the stored cart.
func (db *DB) SaveCart(ctx context.Context, cart *domain.Cart) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.carts[cart.Owner] = domain.NewCart(cart.Owner, cart.Items)
	return nil
}

// --- OrderRepository ---

// CreateOrder appends an order.
func (db *DB) CreateOrder(ctx context.Context, order *domain.Order) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.orders = append(db.orders, copyOrder(*order))
	return nil
}

// ListOrdersByUser returns the user's orders in creation order.
func (db *DB) ListOrdersByUser(ctx context.Context, username string) ([]domain.Order, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.Order{}
	for _, o := range db.orders {
		if o.Owner == username {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func copyOrder(o domain.Order) domain.Order {
	items := make([]domain.Item, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
