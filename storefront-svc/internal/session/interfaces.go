package session

import (
	"context"

	"github.com/Ram071/market/storefront-svc/internal/domain"
	"github.com/Ram071/market/storefront-svc/internal/lifecycle"
)

// Tracker drives placed orders through their delivery statuses.
type Tracker interface {
	Track(ctx context.Context, order domain.Order, apply lifecycle.ApplyFunc)
	Cancel(orderID string)
	CancelAll()
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, evt domain.OrderEvent) error
}

type StatusMirror interface {
	MirrorOrder(ctx context.Context, order domain.Order) error
}

type MetricsRecorder interface {
	RecordCartMutation(op string)
	RecordOrderPlaced(total float64)
	RecordStatusTransition(status domain.OrderStatus)
}

var _ Tracker = (*lifecycle.Simulator)(nil)

// StoreInterface is the operation set views are allowed to call.
type StoreInterface interface {
	Snapshot() State
	SetCurrentPage(page domain.Page) error
	SetSelectedRestaurantID(id string) error
	AddToCart(menuItemID string, quantity int) error
	UpdateCartQuantity(menuItemID string, quantity int) error
	RemoveFromCart(menuItemID string) error
	ClearCart()
	CheckoutRestaurantName() string
	PlaceOrder(restaurantName string) (domain.Order, error)
	Order(orderID string) (domain.Order, bool)
	ToggleFavorite(menuItemID string) (bool, error)
	UpdateUserProfile(profile domain.UserProfile)
	Reset()
}

var _ StoreInterface = (*Store)(nil)
