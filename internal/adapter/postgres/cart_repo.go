package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/domain"
)

// GetCart loads the user's cart lines in insertion order. A user without a
// stored cart gets an empty one.
func (d *DB) GetCart(ctx context.Context, username string) (*domain.Cart, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT i.id, i.name, i.description, i.price
		FROM cart_items ci
		JOIN items i ON i.id = ci.item_id
		WHERE ci.username = $1
		ORDER BY ci.position`, username)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.NewCart(username, items), nil
}

// SaveCart rewrites the cart's lines and total in one transaction.
func (d *DB) SaveCart(ctx context.Context, cart *domain.Cart) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO carts (username, total, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (username) DO UPDATE SET total = EXCLUDED.total, updated_at = EXCLUDED.updated_at`,
			cart.Owner, cart.Total, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("upsert cart: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE username = $1", cart.Owner); err != nil {
			return fmt.Errorf("clear cart lines: %w", err)
		}

		if len(cart.Items) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO cart_items (username, position, item_id) VALUES ($1, $2, $3)")
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()
		for i, it := range cart.Items {
			if _, err := stmt.ExecContext(ctx, cart.Owner, i, it.ID); err != nil {
				return fmt.Errorf("insert cart line: %w", err)
			}
		}
		return nil
	})
}
