package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// CreateOrder stores the order header and its item snapshots atomically.
func (d *DB) CreateOrder(ctx context.Context, order *domain.Order) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO orders (id, username, total, created_at) VALUES ($1, $2, $3, $4)",
			order.ID, order.Owner, order.Total, order.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		if len(order.Items) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO order_items (order_id, position, item_id, name, description, price) VALUES ($1, $2, $3, $4, $5, $6)")
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()
		for i, it := range order.Items {
			if _, err := stmt.ExecContext(ctx, order.ID, i, it.ID, it.Name, it.Description, it.Price); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
}

// ListOrdersByUser returns the user's orders in creation order.
func (d *DB) ListOrdersByUser(ctx context.Context, username string) ([]domain.Order, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT o.id, o.total, o.created_at,
		       oi.item_id, oi.name, oi.description, oi.price
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		WHERE o.username = $1
		ORDER BY o.seq, oi.position`, username)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Order{}
	for rows.Next() {
		var (
			id     uuid.UUID
			o      domain.Order
			itemID sql.NullInt64
			name   sql.NullString
			desc   sql.NullString
			price  decimal.NullDecimal
		)
		if err := rows.Scan(&id, &o.Total, &o.CreatedAt, &itemID, &name, &desc, &price); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			o.ID = id
			o.Owner = username
			o.Items = []domain.Item{}
			out = append(out, o)
		}
		if itemID.Valid {
			cur := &out[len(out)-1]
			cur.Items = append(cur.Items, domain.Item{
				ID:          itemID.Int64,
				Name:        name.String,
				Description: desc.String,
				Price:       price.Decimal,
			})
		}
	}
	return out, rows.Err()
}
