package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// MaxQuantity bounds the units a single add/remove request may carry.
const MaxQuantity = 100

// Cart is a user's pending selection. Quantity is represented by repeating
// the same item, so len(Items) is the number of units, not of products.
// Total always equals the exact sum of Items' prices.
type Cart struct {
	Owner string          `json:"user"`
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartRepository is the port for cart persistence. One active cart per user.
type CartRepository interface {
	// GetCart returns the stored cart, or an empty cart owned by username.
	GetCart(ctx context.Context, username string) (*Cart, error)
	// SaveCart replaces the stored lines and total atomically.
	SaveCart(ctx context.Context, cart *Cart) error
}

// NewCart builds a cart from its lines and computes the total.
func NewCart(owner string, items []Item) *Cart {
	c := &Cart{Owner: owner, Items: make([]Item, 0, len(items))}
	c.Items = append(c.Items, items...)
	c.recompute()
	return c
}

// ValidateQuantity rejects quantities outside [0, MaxQuantity].
func ValidateQuantity(quantity int) error {
	if quantity < 0 || quantity > MaxQuantity {
		return BadRequest("quantity must be between 0 and %d", MaxQuantity)
	}
	return nil
}

// AddItem appends quantity entries of item.
func (c *Cart) AddItem(item Item, quantity int) {
	for i := 0; i < quantity; i++ {
		c.Items = append(c.Items, item)
	}
	c.recompute()
}

// RemoveItem removes up to quantity entries matching item.ID, earliest first,
// and reports how many were removed. Removing more than present clamps.
func (c *Cart) RemoveItem(item Item, quantity int) int {
	removed := 0
	kept := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if removed < quantity && it.ID == item.ID {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	c.Items = kept
	c.recompute()
	return removed
}

func (c *Cart) recompute() {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price)
	}
	c.Total = total
}
