// Package session owns the mutable state of one storefront session: the page
// being shown, the cart, placed orders, favourites and the user's profile.
//
// Every mutation is serialized behind a single mutex and either applies in
// full or leaves the state untouched. Rejected mutations return one of the
// sentinel errors below; callers are free to ignore them.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/Ram071/market/storefront-svc/internal/catalog"
	"github.com/Ram071/market/storefront-svc/internal/domain"
	"github.com/Ram071/market/storefront-svc/internal/lifecycle"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnknownPage       = errors.New("unknown page")
	ErrUnknownRestaurant = errors.New("restaurant not found")
	ErrUnknownMenuItem   = errors.New("menu item not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNotInCart         = errors.New("menu item is not in the cart")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrClosed            = errors.New("session is closed")
)

type Store struct {
	catalog   catalog.Provider
	tracker   Tracker
	clock     lifecycle.Clock
	logger    *zap.Logger
	publisher OrderPublisher
	mirror    StatusMirror
	metrics   MetricsRecorder
	newID     func() string

	ctx    context.Context
	cancel context.CancelFunc

	mu                   sync.Mutex
	initialProfile       domain.UserProfile
	page                 domain.Page
	selectedRestaurantID string
	cart                 []domain.CartItem
	orders               []domain.Order
	currentOrderID       string
	favorites            map[string]struct{}
	profile              domain.UserProfile
	closed               bool
}

type Option func(*Store)

func WithTracker(t Tracker) Option { return func(s *Store) { s.tracker = t } }

func WithClock(c lifecycle.Clock) Option { return func(s *Store) { s.clock = c } }

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.logger = l } }

func WithPublisher(p OrderPublisher) Option { return func(s *Store) { s.publisher = p } }

func WithMirror(m StatusMirror) Option { return func(s *Store) { s.mirror = m } }

func WithMetrics(m MetricsRecorder) Option { return func(s *Store) { s.metrics = m } }

func WithProfile(p domain.UserProfile) Option { return func(s *Store) { s.initialProfile = p } }

func WithIDGenerator(f func() string) Option { return func(s *Store) { s.newID = f } }

// New creates a session on top of a catalog. Cancelling ctx tears the
// session down the same way Close does.
func New(ctx context.Context, cat catalog.Provider, opts ...Option) *Store {
	s := &Store{
		catalog: cat,
		clock:   lifecycle.RealClock(),
		logger:  zap.NewNop(),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = lifecycle.NewSimulator(lifecycle.WithClock(s.clock), lifecycle.WithLogger(s.logger))
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.page = domain.PageHome
	s.selectedRestaurantID = ""
	s.cart = nil
	s.orders = nil
	s.currentOrderID = ""
	s.favorites = make(map[string]struct{})
	s.profile = s.initialProfile
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) SetCurrentPage(page domain.Page) error {
	if _, ok := domain.ParsePage(string(page)); !ok {
		return ErrUnknownPage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	return nil
}

// SetSelectedRestaurantID sets the restaurant shown by the detail page. An
// empty id clears the selection.
func (s *Store) SetSelectedRestaurantID(id string) error {
	if id != "" {
		if _, ok := s.catalog.Restaurant(id); !ok {
			s.logger.Debug("ignoring unknown restaurant", zap.String("restaurant_id", id))
			return ErrUnknownRestaurant
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedRestaurantID = id
	return nil
}

func (s *Store) AddToCart(menuItemID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	item, ok := s.catalog.MenuItem(menuItemID)
	if !ok {
		s.logger.Debug("ignoring unknown menu item", zap.String("menu_item_id", menuItemID))
		return ErrUnknownMenuItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordCart("add")
	for i := range s.cart {
		if s.cart[i].MenuItemID == menuItemID {
			s.cart[i].Quantity += quantity
			return nil
		}
	}
	s.cart = append(s.cart, domain.CartItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   quantity,
	})
	return nil
}

// UpdateCartQuantity sets the quantity of an item already in the cart. A
// quantity of zero or less removes it.
func (s *Store) UpdateCartQuantity(menuItemID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.cartIndexLocked(menuItemID)
	if i < 0 {
		return ErrNotInCart
	}
	if quantity <= 0 {
		s.removeAtLocked(i)
		s.recordCart("remove")
		return nil
	}
	s.cart[i].Quantity = quantity
	s.recordCart("update")
	return nil
}

func (s *Store) RemoveFromCart(menuItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.cartIndexLocked(menuItemID)
	if i < 0 {
		return ErrNotInCart
	}
	s.removeAtLocked(i)
	s.recordCart("remove")
	return nil
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
	s.recordCart("clear")
}

func (s *Store) cartIndexLocked(menuItemID string) int {
	for i, item := range s.cart {
		if item.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAtLocked(i int) {
	s.cart = append(s.cart[:i:i], s.cart[i+1:]...)
}

// CheckoutRestaurantName names the restaurant of the first cart item, or ""
// when the cart is empty.
func (s *Store) CheckoutRestaurantName() string {
	s.mu.Lock()
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return ""
	}
	first := s.cart[0].MenuItemID
	s.mu.Unlock()

	item, ok := s.catalog.MenuItem(first)
	if !ok {
		return ""
	}
	r, ok := s.catalog.Restaurant(item.RestaurantID)
	if !ok {
		return ""
	}
	return r.Name
}

// PlaceOrder turns the cart into a confirmed order, empties the cart and
// starts the order's delivery simulation.
func (s *Store) PlaceOrder(restaurantName string) (domain.Order, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Order{}, ErrClosed
	}
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return domain.Order{}, ErrEmptyCart
	}

	order := domain.Order{
		ID:             s.newID(),
		RestaurantName: restaurantName,
		Items:          make([]domain.OrderLine, 0, len(s.cart)),
		Date:           s.clock.Now(),
		Status:         domain.StatusConfirmed,
	}
	total := decimal.Zero
	for _, item := range s.cart {
		line := domain.OrderLine{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
		}
		order.Items = append(order.Items, line)
		total = total.Add(line.Subtotal())
	}
	order.Total = total.Round(2)

	s.orders = append([]domain.Order{order}, s.orders...)
	s.currentOrderID = order.ID
	s.cart = nil
	s.recordCart("checkout")
	s.mu.Unlock()

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("restaurant", restaurantName),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("lines", len(order.Items)),
	)
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(order.Total.InexactFloat64())
	}
	s.tracker.Track(s.ctx, order.Clone(), s.advance)
	s.notify(domain.EventOrderPlaced, order)
	return order.Clone(), nil
}

// advance is the only path that changes an order's status after placement.
func (s *Store) advance(orderID string, from, to domain.OrderStatus) bool {
	if next, ok := from.Next(); !ok || next != to {
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	var updated domain.Order
	found := false
	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		if s.orders[i].Status != from {
			break
		}
		s.orders[i].Status = to
		updated = s.orders[i].Clone()
		found = true
		break
	}
	s.mu.Unlock()

	if !found {
		return false
	}
	s.logger.Info("order status changed",
		zap.String("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	if s.metrics != nil {
		s.metrics.RecordStatusTransition(to)
	}
	s.notify(domain.EventStatusChanged, updated)
	return true
}

func (s *Store) notify(eventType string, order domain.Order) {
	if s.publisher != nil {
		err := s.publisher.PublishOrderEvent(s.ctx, domain.OrderEvent{
			Type:           eventType,
			OrderID:        order.ID,
			RestaurantName: order.RestaurantName,
			Status:         order.Status,
			Total:          order.Total,
			Timestamp:      s.clock.Now(),
		})
		if err != nil {
			s.logger.Warn("publish order event failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	if s.mirror != nil {
		if err := s.mirror.MirrorOrder(s.ctx, order); err != nil {
			s.logger.Warn("mirror order status failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
}

func (s *Store) Order(orderID string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return o.Clone(), true
		}
	}
	return domain.Order{}, false
}

// ToggleFavorite flips membership of menuItemID and reports whether it is now
// a favourite.
func (s *Store) ToggleFavorite(menuItemID string) (bool, error) {
	if _, ok := s.catalog.MenuItem(menuItemID); !ok {
		return false, ErrUnknownMenuItem
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.favorites[menuItemID]; ok {
		delete(s.favorites, menuItemID)
		return false, nil
	}
	s.favorites[menuItemID] = struct{}{}
	return true, nil
}

func (s *Store) UpdateUserProfile(profile domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}

// Reset supersedes every order of the session and returns it to its initial
// state. Pending status transitions are cancelled before any other mutation
// can run, so orders placed after Reset keep advancing.
func (s *Store) Reset() {
	s.mu.Lock()
	s.resetLocked()
	// the tracker never calls back into the store while holding its own lock
	s.tracker.CancelAll()
	s.mu.Unlock()

	s.logger.Info("session reset")
}

// Close tears the session down. Orders stop advancing and PlaceOrder is
// rejected afterwards; the rest of the state stays readable.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.tracker.CancelAll()
}

func (s *Store) recordCart(op string) {
	if s.metrics != nil {
		s.metrics.RecordCartMutation(op)
	}
}
