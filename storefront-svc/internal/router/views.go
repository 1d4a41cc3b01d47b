package router

import (
	"github.com/Ram071/market/storefront-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// Query carries the view-local filter inputs the pages are rendered with.
type Query struct {
	Search   string `json:"search"`
	Cuisine  string `json:"cuisine"`
	Rating   string `json:"rating"`
	Category string `json:"category"`
}

type Rendered struct {
	Page domain.Page `json:"page"`
	View any         `json:"view"`
}

type HomeView struct {
	Restaurants   []domain.Restaurant `json:"restaurants"`
	Cuisines      []string            `json:"cuisines"`
	RatingOptions []string            `json:"rating_options"`
	Query         Query               `json:"query"`
	Empty         bool                `json:"empty"`
}

type RestaurantDetailView struct {
	Found            bool               `json:"found"`
	Restaurant       *domain.Restaurant `json:"restaurant,omitempty"`
	Categories       []string           `json:"categories"`
	SelectedCategory string             `json:"selected_category"`
	Items            []domain.MenuItem  `json:"items"`
	Favorites        []string           `json:"favorites"`
	CartItemCount    int                `json:"cart_item_count"`
}

type CartLine struct {
	domain.CartItem
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Lines          []CartLine      `json:"lines"`
	ItemCount      int             `json:"item_count"`
	Total          decimal.Decimal `json:"total"`
	RestaurantName string          `json:"restaurant_name"`
	Empty          bool            `json:"empty"`
}

type CheckoutView struct {
	CartView
	Profile  domain.UserProfile `json:"profile"`
	CanPlace bool               `json:"can_place"`
}

type StatusStep struct {
	Status domain.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	Active bool               `json:"active"`
	Done   bool               `json:"done"`
}

type OrderConfirmationView struct {
	Found             bool          `json:"found"`
	Order             *domain.Order `json:"order,omitempty"`
	StatusLabel       string        `json:"status_label,omitempty"`
	Steps             []StatusStep  `json:"steps,omitempty"`
	EstimatedDelivery string        `json:"estimated_delivery,omitempty"`
	QRCodeURL         string        `json:"qr_code_url,omitempty"`
}

type ProfileView struct {
	Profile   domain.UserProfile `json:"profile"`
	Orders    []domain.Order     `json:"orders"`
	Favorites []domain.MenuItem  `json:"favorites"`
}
