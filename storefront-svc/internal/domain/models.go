package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Cuisine      string  `json:"cuisine"`
	Rating       float64 `json:"rating"`
	DeliveryTime string  `json:"delivery_time"`
	PriceRange   string  `json:"price_range"`
	ImageURL     string  `json:"image_url"`
}

type MenuItem struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	ImageURL     string          `json:"image_url"`
}

// CartItem keeps the name and price the item had when it was first added.
type CartItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

type OrderLine struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID             string          `json:"id"`
	RestaurantName string          `json:"restaurant_name"`
	Items          []OrderLine     `json:"items"`
	Total          decimal.Decimal `json:"total"`
	Date           time.Time       `json:"date"`
	Status         OrderStatus     `json:"status"`
}

// Clone returns a copy that shares no slice memory with o.
func (o Order) Clone() Order {
	items := make([]OrderLine, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

type UserProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

const (
	EventOrderPlaced   = "order_placed"
	EventStatusChanged = "status_changed"
)

type OrderEvent struct {
	Type           string          `json:"type"`
	OrderID        string          `json:"order_id"`
	RestaurantName string          `json:"restaurant_name"`
	Status         OrderStatus     `json:"status"`
	Total          decimal.Decimal `json:"total"`
	Timestamp      time.Time       `json:"timestamp"`
}
