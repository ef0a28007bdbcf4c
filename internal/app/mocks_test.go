package app

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/domain"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

// knownUsers returns a repo that resolves exactly the given usernames.
func knownUsers(names ...string) *mockUserRepo {
	return &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			for i, n := range names {
				if n == username {
					return &domain.User{ID: int64(i + 1), Username: n}, nil
				}
			}
			return nil, nil
		},
	}
}

type mockCartRepo struct {
	mu     sync.Mutex
	carts  map[string]*domain.Cart
	saves  int
	getErr error
	putErr error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*domain.Cart)}
}

func (m *mockCartRepo) GetCart(ctx context.Context, username string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if c, ok := m.carts[username]; ok {
		return domain.NewCart(c.Owner, c.Items), nil
	}
	return domain.NewCart(username, nil), nil
}

func (m *mockCartRepo) SaveCart(ctx context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.saves++
	m.carts[cart.Owner] = domain.NewCart(cart.Owner, cart.Items)
	return nil
}

type mockItemRepo struct {
	mu      sync.Mutex
	items   []domain.Item
	getCnt  int
	getErr  error
	blockCh chan struct{}
	entered chan struct{}
}

func (m *mockItemRepo) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	if m.entered != nil {
		select {
		case m.entered <- struct{}{}:
		default:
		}
	}
	if m.blockCh != nil {
		select {
		case <-m.blockCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCnt++
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, it := range m.items {
		if it.ID == id {
			ret := it
			return &ret, nil
		}
	}
	return nil, nil
}

func (m *mockItemRepo) ListItems(ctx context.Context) ([]domain.Item, error) {
	return m.items, nil
}

func (m *mockItemRepo) FindItemsByName(ctx context.Context, name string) ([]domain.Item, error) {
	var out []domain.Item
	for _, it := range m.items {
		if it.Name == name {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockItemRepo) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCnt
}

type mockItemCache struct {
	getFn func(ctx context.Context, id int64) (*domain.Item, error)
	setFn func(ctx context.Context, item *domain.Item) error
}

func (m *mockItemCache) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockItemCache) SetItem(ctx context.Context, item *domain.Item) error {
	if m.setFn != nil {
		return m.setFn(ctx, item)
	}
	return nil
}

type mockOrderRepo struct {
	createFn func(ctx context.Context, order *domain.Order) error
	listFn   func(ctx context.Context, username string) ([]domain.Order, error)
	created  []*domain.Order
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	if m.createFn != nil {
		return m.createFn(ctx, order)
	}
	m.created = append(m.created, order)
	return nil
}

func (m *mockOrderRepo) ListOrdersByUser(ctx context.Context, username string) ([]domain.Order, error) {
	if m.listFn != nil {
		return m.listFn(ctx, username)
	}
	var out []domain.Order
	for _, o := range m.created {
		if o.Owner == username {
			out = append(out, *o)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")
