package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ram071/market/storefront-svc/internal/catalog"
	"github.com/Ram071/market/storefront-svc/internal/domain"
	"github.com/Ram071/market/storefront-svc/internal/lifecycle"
	"github.com/Ram071/market/storefront-svc/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]domain.Restaurant{
			{ID: "r1", Name: "Bella Italia", Cuisine: "Italian", Rating: 4.6},
			{ID: "r2", Name: "Spice Route", Cuisine: "Indian", Rating: 4.2},
		},
		[]domain.MenuItem{
			{ID: "m1", RestaurantID: "r1", Name: "Margherita", Price: decimal.NewFromInt(10), Category: "Pizza"},
			{ID: "m2", RestaurantID: "r1", Name: "Tiramisu", Price: decimal.NewFromInt(5), Category: "Desserts"},
			{ID: "m3", RestaurantID: "r2", Name: "Naan", Price: decimal.RequireFromString("0.10"), Category: "Breads"},
		},
	)
	require.NoError(t, err)
	return c
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("order-%d", n)
	}
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *lifecycle.ManualClock) {
	t.Helper()
	clock := lifecycle.NewManualClock(epoch)
	opts = append([]Option{WithClock(clock), WithIDGenerator(sequentialIDs())}, opts...)
	s := New(context.Background(), testCatalog(t), opts...)
	return s, clock
}

func TestNewStoreDefaults(t *testing.T) {
	profile := domain.UserProfile{Name: "John Doe"}
	s, _ := newTestStore(t, WithProfile(profile))
	defer s.Close()

	st := s.Snapshot()
	assert.Equal(t, domain.PageHome, st.CurrentPage)
	assert.Empty(t, st.Cart)
	assert.Empty(t, st.Orders)
	assert.Empty(t, st.Favorites)
	assert.Nil(t, st.CurrentOrder)
	assert.Equal(t, profile, st.Profile)
}

func TestSetCurrentPage(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.SetCurrentPage(domain.PageCart))
	assert.Equal(t, domain.PageCart, s.Snapshot().CurrentPage)

	assert.ErrorIs(t, s.SetCurrentPage("settings"), ErrUnknownPage)
	assert.Equal(t, domain.PageCart, s.Snapshot().CurrentPage)
}

func TestSetSelectedRestaurantID(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.SetSelectedRestaurantID("r2"))
	assert.Equal(t, "r2", s.Snapshot().SelectedRestaurantID)

	assert.ErrorIs(t, s.SetSelectedRestaurantID("r9"), ErrUnknownRestaurant)
	assert.Equal(t, "r2", s.Snapshot().SelectedRestaurantID)

	require.NoError(t, s.SetSelectedRestaurantID(""))
	assert.Empty(t, s.Snapshot().SelectedRestaurantID)
}

func TestAddToCartRepeatedAddsSum(t *testing.T) {
	twice, _ := newTestStore(t)
	defer twice.Close()
	once, _ := newTestStore(t)
	defer once.Close()

	require.NoError(t, twice.AddToCart("m1", 2))
	require.NoError(t, twice.AddToCart("m1", 3))
	require.NoError(t, once.AddToCart("m1", 5))

	assert.Equal(t, once.Snapshot().Cart, twice.Snapshot().Cart)
	require.Len(t, twice.Snapshot().Cart, 1)
	assert.Equal(t, 5, twice.Snapshot().Cart[0].Quantity)
}

func TestAddToCartRejects(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		quantity int
		wantErr  error
	}{
		{name: "zero quantity", id: "m1", quantity: 0, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", id: "m1", quantity: -2, wantErr: ErrInvalidQuantity},
		{name: "unknown item", id: "nope", quantity: 1, wantErr: ErrUnknownMenuItem},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			defer s.Close()
			require.NoError(t, s.AddToCart("m2", 1))
			before := s.Snapshot().Cart

			assert.ErrorIs(t, s.AddToCart(tc.id, tc.quantity), tc.wantErr)
			assert.Equal(t, before, s.Snapshot().Cart)
		})
	}
}

func TestAddToCartSnapshotsItem(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m3", 1))
	item := s.Snapshot().Cart[0]
	assert.Equal(t, "m3", item.MenuItemID)
	assert.Equal(t, "Naan", item.Name)
	assert.Equal(t, "0.10", item.Price.StringFixed(2))
}

func TestUpdateCartQuantityZeroRemoves(t *testing.T) {
	for _, q := range []int{0, -1} {
		t.Run(fmt.Sprintf("quantity %d", q), func(t *testing.T) {
			updated, _ := newTestStore(t)
			defer updated.Close()
			removed, _ := newTestStore(t)
			defer removed.Close()

			for _, s := range []*Store{updated, removed} {
				require.NoError(t, s.AddToCart("m1", 1))
				require.NoError(t, s.AddToCart("m2", 4))
			}

			require.NoError(t, updated.UpdateCartQuantity("m1", q))
			require.NoError(t, removed.RemoveFromCart("m1"))

			assert.Equal(t, removed.Snapshot().Cart, updated.Snapshot().Cart)
		})
	}
}

func TestUpdateCartQuantity(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 1))
	require.NoError(t, s.UpdateCartQuantity("m1", 7))
	assert.Equal(t, 7, s.Snapshot().Cart[0].Quantity)

	assert.ErrorIs(t, s.UpdateCartQuantity("m2", 1), ErrNotInCart)
	assert.ErrorIs(t, s.RemoveFromCart("m2"), ErrNotInCart)
	assert.Len(t, s.Snapshot().Cart, 1)
}

func TestCartKeepsInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m2", 1))
	require.NoError(t, s.AddToCart("m3", 1))
	require.NoError(t, s.AddToCart("m1", 1))
	require.NoError(t, s.RemoveFromCart("m3"))
	require.NoError(t, s.AddToCart("m2", 1))

	cart := s.Snapshot().Cart
	require.Len(t, cart, 2)
	assert.Equal(t, "m2", cart[0].MenuItemID)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, "m1", cart[1].MenuItemID)

	s.ClearCart()
	assert.Empty(t, s.Snapshot().Cart)
}

func TestPlaceOrderTotalsAndClearsCart(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 2))
	require.NoError(t, s.AddToCart("m2", 1))

	order, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)

	assert.Equal(t, "25.00", order.Total.StringFixed(2))
	assert.True(t, decimal.NewFromInt(25).Equal(order.Total))
	assert.Equal(t, domain.StatusConfirmed, order.Status)
	assert.Equal(t, "Bella Italia", order.RestaurantName)
	assert.Equal(t, epoch, order.Date)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Margherita", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Quantity)

	st := s.Snapshot()
	assert.Empty(t, st.Cart)
	require.Len(t, st.Orders, 1)
	require.NotNil(t, st.CurrentOrder)
	assert.Equal(t, order.ID, st.CurrentOrder.ID)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	_, err := s.PlaceOrder("Bella Italia")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, s.Snapshot().Orders)
}

func TestPlaceOrderNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 1))
	first, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)
	require.NoError(t, s.AddToCart("m3", 1))
	second, err := s.PlaceOrder("Spice Route")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	st := s.Snapshot()
	require.Len(t, st.Orders, 2)
	assert.Equal(t, second.ID, st.Orders[0].ID)
	assert.Equal(t, first.ID, st.Orders[1].ID)
	assert.Equal(t, second.ID, st.CurrentOrder.ID)
}

func TestCurrentOrderSurvivesNavigation(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 1))
	order, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)

	require.NoError(t, s.SetCurrentPage(domain.PageHome))
	require.NoError(t, s.SetCurrentPage(domain.PageOrderConfirmation))

	st := s.Snapshot()
	require.NotNil(t, st.CurrentOrder)
	assert.Equal(t, order.ID, st.CurrentOrder.ID)
}

func TestOrderStatusTimeline(t *testing.T) {
	s, clock := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 1))
	order, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)

	statusAt := func() domain.OrderStatus {
		o, ok := s.Order(order.ID)
		require.True(t, ok)
		return o.Status
	}

	assert.Equal(t, domain.StatusConfirmed, statusAt())
	clock.Advance(3 * time.Second)
	assert.Equal(t, domain.StatusPreparing, statusAt())
	clock.Advance(3 * time.Second)
	assert.Equal(t, domain.StatusDelivering, statusAt())
	clock.Advance(time.Hour)
	assert.Equal(t, domain.StatusDelivering, statusAt())
	assert.Equal(t, domain.StatusDelivering, s.Snapshot().CurrentOrder.Status)
}

func TestOrdersAdvanceIndependently(t *testing.T) {
	s, clock := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 1))
	first, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	require.NoError(t, s.AddToCart("m3", 1))
	second, err := s.PlaceOrder("Spice Route")
	require.NoError(t, err)

	clock.Advance(4 * time.Second)
	o1, _ := s.Order(first.ID)
	o2, _ := s.Order(second.ID)
	assert.Equal(t, domain.StatusDelivering, o1.Status)
	assert.Equal(t, domain.StatusPreparing, o2.Status)
}

func TestAdvanceRejectsSkipsAndStaleWrites(t *testing.T) {
	tracker := mocks.NewTracker(t)
	var apply lifecycle.ApplyFunc
	tracker.On("Track", mock.Anything, mock.AnythingOfType("domain.Order"), mock.Anything).
		Run(func(args mock.Arguments) { apply = args.Get(2).(lifecycle.ApplyFunc) }).
		Once()
	tracker.On("CancelAll").Return().Once()

	s, _ := newTestStore(t, WithTracker(tracker))
	require.NoError(t, s.AddToCart("m1", 1))
	order, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)
	require.NotNil(t, apply)

	assert.False(t, apply(order.ID, domain.StatusConfirmed, domain.StatusDelivering), "skipping a stage")
	assert.False(t, apply(order.ID, domain.StatusPreparing, domain.StatusConfirmed), "reversing")
	assert.True(t, apply(order.ID, domain.StatusConfirmed, domain.StatusPreparing))
	assert.False(t, apply(order.ID, domain.StatusConfirmed, domain.StatusPreparing), "already applied")
	assert.False(t, apply("other", domain.StatusPreparing, domain.StatusDelivering))

	s.Reset()
	assert.False(t, apply(order.ID, domain.StatusPreparing, domain.StatusDelivering), "order superseded by reset")
	assert.Empty(t, s.Snapshot().Orders)
}

func TestResetCancelsPendingTransitions(t *testing.T) {
	s, clock := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 1))
	_, err := s.ToggleFavorite("m2")
	require.NoError(t, err)
	_, err = s.PlaceOrder("Bella Italia")
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentPage(domain.PageProfile))

	s.Reset()
	assert.Equal(t, 0, clock.Pending())

	clock.Advance(time.Minute)
	st := s.Snapshot()
	assert.Equal(t, domain.PageHome, st.CurrentPage)
	assert.Empty(t, st.Orders)
	assert.Empty(t, st.Favorites)
	assert.Nil(t, st.CurrentOrder)
}

func TestCloseStopsOrders(t *testing.T) {
	s, clock := newTestStore(t)

	require.NoError(t, s.AddToCart("m1", 1))
	order, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)

	s.Close()
	clock.Advance(time.Minute)

	o, ok := s.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusConfirmed, o.Status)

	require.NoError(t, s.AddToCart("m1", 1))
	_, err = s.PlaceOrder("Bella Italia")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestAdvanceAfterCloseIsRejected(t *testing.T) {
	tracker := mocks.NewTracker(t)
	var apply lifecycle.ApplyFunc
	tracker.On("Track", mock.Anything, mock.AnythingOfType("domain.Order"), mock.Anything).
		Run(func(args mock.Arguments) { apply = args.Get(2).(lifecycle.ApplyFunc) }).
		Once()
	tracker.On("CancelAll").Return().Once()

	s, _ := newTestStore(t, WithTracker(tracker))
	require.NoError(t, s.AddToCart("m1", 1))
	order, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)
	require.NotNil(t, apply)

	s.Close()
	assert.False(t, apply(order.ID, domain.StatusConfirmed, domain.StatusPreparing))

	o, ok := s.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusConfirmed, o.Status)
}

// slowPublisher moves the clock forward on every event, as a blocking broker
// write would.
type slowPublisher struct {
	clock *lifecycle.ManualClock
	took  time.Duration
}

func (p slowPublisher) PublishOrderEvent(ctx context.Context, evt domain.OrderEvent) error {
	p.clock.Advance(p.took)
	return nil
}

func TestStatusTimelineIgnoresSlowPublisher(t *testing.T) {
	clock := lifecycle.NewManualClock(epoch)
	s := New(context.Background(), testCatalog(t),
		WithClock(clock),
		WithIDGenerator(sequentialIDs()),
		WithPublisher(slowPublisher{clock: clock, took: 2 * time.Second}),
	)
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 1))
	order, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)
	require.Equal(t, epoch, order.Date)

	advanceTo := func(d time.Duration) {
		if at := epoch.Add(d); at.After(clock.Now()) {
			clock.Advance(at.Sub(clock.Now()))
		}
	}

	advanceTo(3 * time.Second)
	o, _ := s.Order(order.ID)
	assert.Equal(t, domain.StatusPreparing, o.Status)

	advanceTo(6 * time.Second)
	o, _ = s.Order(order.ID)
	assert.Equal(t, domain.StatusDelivering, o.Status, "at %s", clock.Now().Sub(epoch))
}

// gatedTracker blocks inside the first CancelAll until release is closed.
type gatedTracker struct {
	*lifecycle.Simulator
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedTracker) CancelAll() {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	g.Simulator.CancelAll()
}

func TestResetIsAtomicWithPlaceOrder(t *testing.T) {
	clock := lifecycle.NewManualClock(epoch)
	gate := &gatedTracker{
		Simulator: lifecycle.NewSimulator(lifecycle.WithClock(clock)),
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	s := New(context.Background(), testCatalog(t),
		WithClock(clock),
		WithIDGenerator(sequentialIDs()),
		WithTracker(gate),
	)
	defer s.Close()

	resetDone := make(chan struct{})
	go func() {
		s.Reset()
		close(resetDone)
	}()
	<-gate.entered

	var placed atomic.Bool
	placeErr := make(chan error, 1)
	go func() {
		if err := s.AddToCart("m1", 1); err != nil {
			placeErr <- err
			return
		}
		_, err := s.PlaceOrder("Bella Italia")
		placed.Store(true)
		placeErr <- err
	}()

	assert.Never(t, placed.Load, 50*time.Millisecond, 5*time.Millisecond, "order placed while reset was in progress")

	close(gate.release)
	<-resetDone
	require.NoError(t, <-placeErr)

	clock.Advance(6 * time.Second)
	o, ok := s.Order("order-1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusDelivering, o.Status)
}

func TestToggleFavoriteSelfInverse(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	_, err := s.ToggleFavorite("m3")
	require.NoError(t, err)
	before := s.Snapshot().Favorites

	on, err := s.ToggleFavorite("m1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.Snapshot().IsFavorite("m1"))

	on, err = s.ToggleFavorite("m1")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, before, s.Snapshot().Favorites)

	_, err = s.ToggleFavorite("ghost")
	assert.ErrorIs(t, err, ErrUnknownMenuItem)
	assert.Equal(t, before, s.Snapshot().Favorites)
}

func TestUpdateUserProfile(t *testing.T) {
	s, _ := newTestStore(t, WithProfile(domain.UserProfile{Name: "John Doe"}))
	defer s.Close()

	p := domain.UserProfile{Name: "Asha", Email: "asha@example.com", Phone: "123", Address: "1 Main St"}
	s.UpdateUserProfile(p)
	assert.Equal(t, p, s.Snapshot().Profile)

	s.Reset()
	assert.Equal(t, "John Doe", s.Snapshot().Profile.Name)
}

func TestCheckoutRestaurantName(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	assert.Empty(t, s.CheckoutRestaurantName())
	require.NoError(t, s.AddToCart("m3", 1))
	require.NoError(t, s.AddToCart("m1", 1))
	assert.Equal(t, "Spice Route", s.CheckoutRestaurantName())
}

func TestSnapshotIsDetached(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 1))
	_, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)
	require.NoError(t, s.AddToCart("m2", 1))

	st := s.Snapshot()
	st.Cart[0].Quantity = 99
	st.Orders[0].Items[0].Quantity = 99
	st.CurrentOrder.Status = domain.StatusDelivered

	fresh := s.Snapshot()
	assert.Equal(t, 1, fresh.Cart[0].Quantity)
	assert.Equal(t, 1, fresh.Orders[0].Items[0].Quantity)
	assert.Equal(t, domain.StatusConfirmed, fresh.CurrentOrder.Status)
}

func TestStoreNotifiesCollaborators(t *testing.T) {
	publisher := mocks.NewOrderPublisher(t)
	mirror := mocks.NewStatusMirror(t)
	metrics := mocks.NewMetricsRecorder(t)

	metrics.On("RecordCartMutation", "add").Return().Twice()
	metrics.On("RecordCartMutation", "checkout").Return().Once()
	metrics.On("RecordOrderPlaced", 25.0).Return().Once()
	metrics.On("RecordStatusTransition", domain.StatusPreparing).Return().Once()

	isEvent := func(typ string, status domain.OrderStatus) interface{} {
		return mock.MatchedBy(func(e domain.OrderEvent) bool {
			return e.Type == typ && e.Status == status && e.OrderID == "order-1" && e.RestaurantName == "Bella Italia"
		})
	}
	publisher.On("PublishOrderEvent", mock.Anything, isEvent(domain.EventOrderPlaced, domain.StatusConfirmed)).
		Return(nil).Once()
	publisher.On("PublishOrderEvent", mock.Anything, isEvent(domain.EventStatusChanged, domain.StatusPreparing)).
		Return(fmt.Errorf("broker down")).Once()

	isOrder := func(status domain.OrderStatus) interface{} {
		return mock.MatchedBy(func(o domain.Order) bool { return o.ID == "order-1" && o.Status == status })
	}
	mirror.On("MirrorOrder", mock.Anything, isOrder(domain.StatusConfirmed)).Return(nil).Once()
	mirror.On("MirrorOrder", mock.Anything, isOrder(domain.StatusPreparing)).Return(nil).Once()

	s, clock := newTestStore(t, WithPublisher(publisher), WithMirror(mirror), WithMetrics(metrics))
	defer s.Close()

	require.NoError(t, s.AddToCart("m1", 2))
	require.NoError(t, s.AddToCart("m2", 1))
	_, err := s.PlaceOrder("Bella Italia")
	require.NoError(t, err)

	clock.Advance(3 * time.Second)

	o, ok := s.Order("order-1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusPreparing, o.Status, "publish failures do not block transitions")
}

func TestConcurrentCartMutations(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddToCart("m1", 1)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	cart := s.Snapshot().Cart
	require.Len(t, cart, 1)
	assert.Equal(t, 50, cart[0].Quantity)
}
