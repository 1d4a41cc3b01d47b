// Package router maps the session's current page to the view model that page
// shows. It reads session state and the catalog and never mutates either.
package router

import (
	"github.com/Ram071/market/storefront-svc/internal/catalog"
	"github.com/Ram071/market/storefront-svc/internal/domain"
	"github.com/Ram071/market/storefront-svc/internal/filter"
	"github.com/Ram071/market/storefront-svc/internal/session"

	"github.com/shopspring/decimal"
)

const EstimatedDelivery = "25-35 minutes"

// QRLinker resolves the URL of an order's QR code.
type QRLinker interface {
	QRLink(orderID string) string
}

type Router struct {
	catalog catalog.Provider
	qr      QRLinker
	steps   []domain.OrderStatus
}

type Option func(*Router)

func WithQRLinker(q QRLinker) Option { return func(r *Router) { r.qr = q } }

// WithSteps sets the statuses shown on the order tracker.
func WithSteps(steps ...domain.OrderStatus) Option {
	return func(r *Router) { r.steps = steps }
}

func New(cat catalog.Provider, opts ...Option) *Router {
	r := &Router{
		catalog: cat,
		steps:   []domain.OrderStatus{domain.StatusConfirmed, domain.StatusPreparing, domain.StatusDelivering},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Normalize fills empty facets with "all".
func (q Query) Normalize() Query {
	if q.Cuisine == "" {
		q.Cuisine = filter.All
	}
	if q.Rating == "" {
		q.Rating = filter.All
	}
	if q.Category == "" {
		q.Category = filter.All
	}
	return q
}

// Render builds the view for st.CurrentPage. Unknown pages render home.
func (r *Router) Render(st session.State, q Query) Rendered {
	q = q.Normalize()
	switch st.CurrentPage {
	case domain.PageRestaurantDetail:
		return Rendered{Page: domain.PageRestaurantDetail, View: r.RestaurantDetail(st, q.Category)}
	case domain.PageCart:
		return Rendered{Page: domain.PageCart, View: r.Cart(st)}
	case domain.PageCheckout:
		return Rendered{Page: domain.PageCheckout, View: r.Checkout(st)}
	case domain.PageOrderConfirmation:
		return Rendered{Page: domain.PageOrderConfirmation, View: r.OrderConfirmation(st)}
	case domain.PageProfile:
		return Rendered{Page: domain.PageProfile, View: r.Profile(st)}
	default:
		return Rendered{Page: domain.PageHome, View: r.Home(q)}
	}
}

func (r *Router) Home(q Query) HomeView {
	q = q.Normalize()
	all := r.catalog.Restaurants()
	matches := filter.FilterRestaurants(all, q.Search, q.Cuisine, q.Rating)
	return HomeView{
		Restaurants:   matches,
		Cuisines:      filter.DistinctCuisines(all),
		RatingOptions: filter.RatingOptions,
		Query:         q,
		Empty:         len(matches) == 0,
	}
}

func (r *Router) RestaurantDetail(st session.State, category string) RestaurantDetailView {
	if category == "" {
		category = filter.All
	}
	view := RestaurantDetailView{
		SelectedCategory: category,
		Categories:       []string{},
		Items:            []domain.MenuItem{},
		Favorites:        st.Favorites,
		CartItemCount:    filter.CartItemCount(st.Cart),
	}
	rest, ok := r.catalog.Restaurant(st.SelectedRestaurantID)
	if !ok {
		return view
	}
	menu := filter.FilterMenuItems(r.catalog.MenuItems(), rest.ID, filter.All)
	view.Found = true
	view.Restaurant = &rest
	view.Categories = filter.DistinctCategories(menu)
	view.Items = filter.FilterMenuItems(menu, rest.ID, category)
	return view
}

func (r *Router) Cart(st session.State) CartView {
	view := CartView{
		Lines:     make([]CartLine, 0, len(st.Cart)),
		ItemCount: filter.CartItemCount(st.Cart),
		Total:     decimal.Zero,
		Empty:     len(st.Cart) == 0,
	}
	for _, item := range st.Cart {
		sub := item.Subtotal()
		view.Lines = append(view.Lines, CartLine{CartItem: item, Subtotal: sub})
		view.Total = view.Total.Add(sub)
	}
	view.Total = view.Total.Round(2)
	if len(st.Cart) > 0 {
		view.RestaurantName = r.restaurantNameOf(st.Cart[0].MenuItemID)
	}
	return view
}

func (r *Router) restaurantNameOf(menuItemID string) string {
	item, ok := r.catalog.MenuItem(menuItemID)
	if !ok {
		return ""
	}
	rest, ok := r.catalog.Restaurant(item.RestaurantID)
	if !ok {
		return ""
	}
	return rest.Name
}

func (r *Router) Checkout(st session.State) CheckoutView {
	cart := r.Cart(st)
	return CheckoutView{
		CartView: cart,
		Profile:  st.Profile,
		CanPlace: !cart.Empty,
	}
}

func (r *Router) OrderConfirmation(st session.State) OrderConfirmationView {
	if st.CurrentOrder == nil {
		return OrderConfirmationView{}
	}
	order := st.CurrentOrder.Clone()
	view := OrderConfirmationView{
		Found:             true,
		Order:             &order,
		StatusLabel:       order.Status.Label(),
		Steps:             r.stepsFor(order.Status),
		EstimatedDelivery: EstimatedDelivery,
	}
	if r.qr != nil {
		view.QRCodeURL = r.qr.QRLink(order.ID)
	}
	return view
}

func (r *Router) stepsFor(current domain.OrderStatus) []StatusStep {
	reached := -1
	for i, s := range r.steps {
		if s == current {
			reached = i
		}
	}
	steps := make([]StatusStep, 0, len(r.steps))
	for i, s := range r.steps {
		steps = append(steps, StatusStep{
			Status: s,
			Label:  s.Label(),
			Active: i == reached,
			Done:   i < reached,
		})
	}
	return steps
}

func (r *Router) Profile(st session.State) ProfileView {
	return ProfileView{
		Profile:   st.Profile,
		Orders:    st.Orders,
		Favorites: filter.FavoriteItems(r.catalog.MenuItems(), st.FavoriteSet()),
	}
}
