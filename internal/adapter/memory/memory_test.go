package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

func TestUserRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	u, err := db.Create(ctx, "test", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}

	got, err := db.GetByUsername(ctx, "test")
	if err != nil || got == nil {
		t.Fatalf("GetByUsername: %v, %v", got, err)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("expected hash, got %s", got.PasswordHash)
	}

	byID, _ := db.GetByID(ctx, u.ID)
	if byID == nil || byID.Username != "test" {
		t.Errorf("GetByID returned %+v", byID)
	}

	missing, err := db.GetByUsername(ctx, "nobody")
	if err != nil || missing != nil {
		t.Errorf("expected (nil, nil) for unknown user, got %+v, %v", missing, err)
	}

	// Duplicate username
	_, err = db.Create(ctx, "test", "other")
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestItemRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	items, err := db.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 seeded items, got %d", len(items))
	}

	it, _ := db.GetItem(ctx, 1)
	if it == nil || it.Name != "Round Widget" || it.Price.StringFixed(2) != "2.99" {
		t.Errorf("unexpected item 1: %+v", it)
	}

	none, _ := db.GetItem(ctx, 42)
	if none != nil {
		t.Errorf("expected nil for unknown item, got %+v", none)
	}

	byName, _ := db.FindItemsByName(ctx, "Square Widget")
	if len(byName) != 1 || byName[0].ID != 2 {
		t.Errorf("unexpected FindItemsByName result: %+v", byName)
	}
	byName, _ = db.FindItemsByName(ctx, "Triangle Widget")
	if len(byName) != 0 {
		t.Errorf("expected no items, got %+v", byName)
	}
}

func TestCartRepository(t *testing.T) {
	db := New()
	ctx := context.Background()
	round := domain.DefaultItems()[0]

	empty, err := db.GetCart(ctx, "test")
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if empty.Owner != "test" || len(empty.Items) != 0 || !empty.Total.IsZero() {
		t.Errorf("expected empty cart, got %+v", empty)
	}

	empty.AddItem(round, 2)
	if err := db.SaveCart(ctx, empty); err != nil {
		t.Fatalf("SaveCart: %v", err)
	}

	// Mutating the saved value must not reach the store.
	empty.AddItem(round, 1)

	stored, _ := db.GetCart(ctx, "test")
	if len(stored.Items) != 2 || stored.Total.StringFixed(2) != "5.98" {
		t.Errorf("expected 2 lines totalling 5.98, got %d lines, %s", len(stored.Items), stored.Total)
	}

	other, _ := db.GetCart(ctx, "other")
	if len(other.Items) != 0 {
		t.Error("expected other user's cart to be empty")
	}
}

func TestOrderRepository(t *testing.T) {
	db := New()
	ctx := context.Background()
	items := domain.DefaultItems()

	cart := domain.NewCart("test", items)
	first := domain.NewOrderFromCart(uuid.New(), cart, time.Now())
	second := domain.NewOrderFromCart(uuid.New(), domain.NewCart("test", items[:1]), time.Now())
	foreign := domain.NewOrderFromCart(uuid.New(), domain.NewCart("other", items), time.Now())

	for _, o := range []*domain.Order{first, foreign, second} {
		if err := db.CreateOrder(ctx, o); err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
	}

	history, err := db.ListOrdersByUser(ctx, "test")
	if err != nil {
		t.Fatalf("ListOrdersByUser: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(history))
	}
	if history[0].ID != first.ID || history[1].ID != second.ID {
		t.Error("expected orders in creation order")
	}

	history[0].Items[0].Name = "mutated"
	again, _ := db.ListOrdersByUser(ctx, "test")
	if again[0].Items[0].Name != "Round Widget" {
		t.Error("stored order was mutated through a returned copy")
	}

	none, _ := db.ListOrdersByUser(ctx, "nobody")
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil history, got %#v", none)
	}
}
