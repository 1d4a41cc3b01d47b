package catalog

import (
	"errors"
	"fmt"

	"github.com/Ram071/market/storefront-svc/internal/domain"
)

var (
	ErrDuplicateID     = errors.New("duplicate catalog id")
	ErrUnknownReferent = errors.New("menu item references unknown restaurant")
	ErrNegativePrice   = errors.New("menu item price is negative")
)

// Provider is the read-only view of the catalog the rest of the service depends on.
type Provider interface {
	Restaurants() []domain.Restaurant
	MenuItems() []domain.MenuItem
	Restaurant(id string) (domain.Restaurant, bool)
	MenuItem(id string) (domain.MenuItem, bool)
}

// Catalog is immutable after New returns.
type Catalog struct {
	restaurants   []domain.Restaurant
	menuItems     []domain.MenuItem
	restaurantIdx map[string]int
	menuItemIdx   map[string]int
}

func New(restaurants []domain.Restaurant, menuItems []domain.MenuItem) (*Catalog, error) {
	c := &Catalog{
		restaurants:   make([]domain.Restaurant, len(restaurants)),
		menuItems:     make([]domain.MenuItem, len(menuItems)),
		restaurantIdx: make(map[string]int, len(restaurants)),
		menuItemIdx:   make(map[string]int, len(menuItems)),
	}
	copy(c.restaurants, restaurants)
	copy(c.menuItems, menuItems)

	for i, r := range c.restaurants {
		if _, dup := c.restaurantIdx[r.ID]; dup {
			return nil, fmt.Errorf("restaurant %q: %w", r.ID, ErrDuplicateID)
		}
		c.restaurantIdx[r.ID] = i
	}
	for i, item := range c.menuItems {
		if _, dup := c.menuItemIdx[item.ID]; dup {
			return nil, fmt.Errorf("menu item %q: %w", item.ID, ErrDuplicateID)
		}
		if _, ok := c.restaurantIdx[item.RestaurantID]; !ok {
			return nil, fmt.Errorf("menu item %q -> %q: %w", item.ID, item.RestaurantID, ErrUnknownReferent)
		}
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("menu item %q: %w", item.ID, ErrNegativePrice)
		}
		c.menuItemIdx[item.ID] = i
	}
	return c, nil
}

func (c *Catalog) Restaurants() []domain.Restaurant {
	out := make([]domain.Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

func (c *Catalog) MenuItems() []domain.MenuItem {
	out := make([]domain.MenuItem, len(c.menuItems))
	copy(out, c.menuItems)
	return out
}

func (c *Catalog) Restaurant(id string) (domain.Restaurant, bool) {
	i, ok := c.restaurantIdx[id]
	if !ok {
		return domain.Restaurant{}, false
	}
	return c.restaurants[i], true
}

func (c *Catalog) MenuItem(id string) (domain.MenuItem, bool) {
	i, ok := c.menuItemIdx[id]
	if !ok {
		return domain.MenuItem{}, false
	}
	return c.menuItems[i], true
}

var _ Provider = (*Catalog)(nil)
