package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ram071/market/storefront-svc/internal/domain"
)

// PostgresSource reads the catalog tables once at start-up.
type PostgresSource struct {
	DB *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{DB: db}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cuisine TEXT NOT NULL,
		rating NUMERIC(2,1) NOT NULL DEFAULT 0,
		delivery_time TEXT,
		price_range TEXT,
		image_url TEXT,
		position INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		image_url TEXT,
		position INT NOT NULL DEFAULT 0
	)`,
}

// EnsureSchema creates the catalog tables when they are missing.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresSource) Load(ctx context.Context) (*Catalog, error) {
	restaurants, err := s.listRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}
	items, err := s.listMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	return New(restaurants, items)
}

func (s *PostgresSource) listRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, cuisine, rating, COALESCE(delivery_time, ''), COALESCE(price_range, ''), COALESCE(image_url, '')
		FROM restaurants
		ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		var r domain.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Cuisine, &r.Rating, &r.DeliveryTime, &r.PriceRange, &r.ImageURL); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

func (s *PostgresSource) listMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, COALESCE(description, ''), price, category, COALESCE(image_url, '')
		FROM menu_items
		ORDER BY position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.Category, &item.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
