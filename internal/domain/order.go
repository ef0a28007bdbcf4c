package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable snapshot of a cart taken at submission time.
type Order struct {
	ID        uuid.UUID       `json:"id"`
	Owner     string          `json:"user"`
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderRepository is the append-only port for orders.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	// ListOrdersByUser returns orders in creation order.
	ListOrdersByUser(ctx context.Context, username string) ([]Order, error)
}

// NewOrderFromCart copies the cart's lines and total. The cart is left untouched
// and later changes to it never reach the order.
func NewOrderFromCart(id uuid.UUID, cart *Cart, now time.Time) *Order {
	items := make([]Item, len(cart.Items))
	copy(items, cart.Items)
	return &Order{
		ID:        id,
		Owner:     cart.Owner,
		Items:     items,
		Total:     cart.Total,
		CreatedAt: now.UTC(),
	}
}
