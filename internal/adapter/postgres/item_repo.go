package postgres

import (
	"context"
	"database/sql"

	"storefront/internal/domain"
)

const itemColumns = "id, name, description, price"

// GetItem retrieves an item by ID.
func (d *DB) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	var it domain.Item
	err := d.sql.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = $1", id,
	).Scan(&it.ID, &it.Name, &it.Description, &it.Price)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ListItems returns the catalogue ordered by id.
func (d *DB) ListItems(ctx context.Context) ([]domain.Item, error) {
	return d.queryItems(ctx, "SELECT "+itemColumns+" FROM items ORDER BY id")
}

// FindItemsByName returns items whose name matches exactly.
func (d *DB) FindItemsByName(ctx context.Context, name string) ([]domain.Item, error) {
	return d.queryItems(ctx, "SELECT "+itemColumns+" FROM items WHERE name = $1 ORDER BY id", name)
}

func (d *DB) queryItems(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Item{}
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
