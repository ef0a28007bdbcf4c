package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Item is immutable catalogue data referenced by carts and orders.
type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ItemRepository is the port for catalogue reads.
type ItemRepository interface {
	// GetItem returns (nil, nil) when the id is unknown.
	GetItem(ctx context.Context, id int64) (*Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	FindItemsByName(ctx context.Context, name string) ([]Item, error)
}

// ErrCacheMiss is returned by ItemCache when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ItemCache is an optional read-through cache in front of ItemRepository.
type ItemCache interface {
	GetItem(ctx context.Context, id int64) (*Item, error)
	SetItem(ctx context.Context, item *Item) error
}

// DefaultItems is the seed catalogue.
func DefaultItems() []Item {
	return []Item{
		{ID: 1, Name: "Round Widget", Description: "A widget that is round", Price: decimal.RequireFromString("2.99")},
		{ID: 2, Name: "Square Widget", Description: "A widget that is square", Price: decimal.RequireFromString("1.99")},
	}
}
