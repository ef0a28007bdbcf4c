package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// OrderService converts carts into orders and lists past orders.
type OrderService struct {
	users  domain.UserRepository
	carts  domain.CartRepository
	orders domain.OrderRepository
	newID  func() uuid.UUID
	now    func() time.Time
	log    *zap.Logger
}

// NewOrderService creates an OrderService.
func NewOrderService(users domain.UserRepository, carts domain.CartRepository, orders domain.OrderRepository, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		users:  users,
		carts:  carts,
		orders: orders,
		newID:  uuid.New,
		now:    time.Now,
		log:    log,
	}
}

// Submit snapshots username's current cart into a new order. The cart is not
// cleared.
func (s *OrderService) Submit(ctx context.Context, actor, username string) (*domain.Order, error) {
	if err := ensureOwner(ctx, s.users, actor, username); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	order := domain.NewOrderFromCart(s.newID(), cart, s.now())
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("order submitted",
		zap.String("username", username),
		zap.Stringer("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

// History returns username's orders in creation order.
func (s *OrderService) History(ctx context.Context, actor, username string) ([]domain.Order, error) {
	if err := ensureOwner(ctx, s.users, actor, username); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrdersByUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
