package app

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

// ItemFinder resolves catalogue items by id. *ItemService satisfies it.
type ItemFinder interface {
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
}

// CartChange is a request to add or remove units of one item. Username is
// optional; when set it must name the acting user.
type CartChange struct {
	Username string `json:"username"`
	ItemID   int64  `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// CartService orchestrates cart mutations for the acting user.
type CartService struct {
	users domain.UserRepository
	carts domain.CartRepository
	items ItemFinder
}

// NewCartService creates a CartService.
func NewCartService(users domain.UserRepository, carts domain.CartRepository, items ItemFinder) *CartService {
	return &CartService{users: users, carts: carts, items: items}
}

// GetCart returns actor's cart.
func (s *CartService) GetCart(ctx context.Context, actor string) (*domain.Cart, error) {
	if _, err := requireUser(s.users.GetByUsername(ctx, actor)); err != nil {
		return nil, err
	}
	return s.carts.GetCart(ctx, actor)
}

// AddToCart appends change.Quantity units of the item to actor's cart.
func (s *CartService) AddToCart(ctx context.Context, actor string, change CartChange) (*domain.Cart, error) {
	return s.mutate(ctx, actor, change, func(c *domain.Cart, item domain.Item) {
		c.AddItem(item, change.Quantity)
	})
}

// RemoveFromCart removes up to change.Quantity units of the item from actor's
// cart. Removing more than present is not an error.
func (s *CartService) RemoveFromCart(ctx context.Context, actor string, change CartChange) (*domain.Cart, error) {
	return s.mutate(ctx, actor, change, func(c *domain.Cart, item domain.Item) {
		c.RemoveItem(item, change.Quantity)
	})
}

func (s *CartService) mutate(ctx context.Context, actor string, change CartChange, apply func(*domain.Cart, domain.Item)) (*domain.Cart, error) {
	if change.Username != "" && change.Username != actor {
		return nil, domain.Forbidden("cannot modify another user's cart")
	}
	if err := domain.ValidateQuantity(change.Quantity); err != nil {
		return nil, err
	}
	if _, err := requireUser(s.users.GetByUsername(ctx, actor)); err != nil {
		return nil, err
	}
	item, err := s.items.GetItem(ctx, change.ItemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if change.Quantity == 0 {
		return cart, nil
	}

	apply(cart, *item)
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}
