package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Ram071/market/storefront-svc/internal/catalog"
	"github.com/Ram071/market/storefront-svc/internal/domain"
	"github.com/Ram071/market/storefront-svc/internal/filter"
	"github.com/Ram071/market/storefront-svc/internal/router"
	"github.com/Ram071/market/storefront-svc/internal/service"
	"github.com/Ram071/market/storefront-svc/internal/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Session session.StoreInterface
	Pages   *router.Router
	Catalog catalog.Provider
	Orders  service.OrderQRServiceInterface
	Logger  *zap.Logger
}

func NewHandler(sess session.StoreInterface, pages *router.Router, cat catalog.Provider, orders service.OrderQRServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Session: sess,
		Pages:   pages,
		Catalog: cat,
		Orders:  orders,
		Logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/view", h.getView).Methods("GET")
	r.HandleFunc("/api/state", h.getState).Methods("GET")
	r.HandleFunc("/api/page", h.setPage).Methods("PUT")
	r.HandleFunc("/api/restaurant", h.selectRestaurant).Methods("PUT")

	r.HandleFunc("/api/cart/items", h.addToCart).Methods("POST")
	r.HandleFunc("/api/cart/items/{id}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{id}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")

	r.HandleFunc("/api/orders", h.placeOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	r.HandleFunc("/api/favorites/{id}", h.toggleFavorite).Methods("POST")
	r.HandleFunc("/api/profile", h.updateProfile).Methods("PUT")
	r.HandleFunc("/api/session/reset", h.resetSession).Methods("POST")

	r.HandleFunc("/api/catalog/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/catalog/restaurants/{id}/menu", h.getRestaurantMenu).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getView(w http.ResponseWriter, r *http.Request) {
	q, ok := queryFrom(r)
	if !ok {
		http.Error(w, "unsupported rating threshold", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.Pages.Render(h.Session.Snapshot(), q))
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

type pageRequest struct {
	Page string `json:"page"`
}

func (h *Handler) setPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Session.SetCurrentPage(domain.Page(req.Page)); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Pages.Render(h.Session.Snapshot(), router.Query{}))
}

type restaurantRequest struct {
	RestaurantID string `json:"restaurant_id"`
}

func (h *Handler) selectRestaurant(w http.ResponseWriter, r *http.Request) {
	var req restaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Session.SetSelectedRestaurantID(req.RestaurantID); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Session.SetCurrentPage(domain.PageRestaurantDetail); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Pages.Render(h.Session.Snapshot(), router.Query{}))
}

type cartItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   *int   `json:"quantity"`
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if err := h.Session.AddToCart(req.MenuItemID, quantity); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Pages.Cart(h.Session.Snapshot()))
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Session.UpdateCartQuantity(mux.Vars(r)["id"], req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Pages.Cart(h.Session.Snapshot()))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.RemoveFromCart(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Pages.Cart(h.Session.Snapshot()))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.Session.ClearCart()
	writeJSON(w, http.StatusOK, h.Pages.Cart(h.Session.Snapshot()))
}

type placeOrderRequest struct {
	RestaurantName string `json:"restaurant_name"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.RestaurantName == "" {
		req.RestaurantName = h.Session.CheckoutRestaurantName()
	}
	order, err := h.Session.PlaceOrder(req.RestaurantName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Session.SetCurrentPage(domain.PageOrderConfirmation); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.Snapshot().Orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := h.Session.Order(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qr, err := h.Orders.QRCode(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(qr)
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	fav, err := h.Session.ToggleFavorite(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"menu_item_id": id,
		"favorite":     fav,
	})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.Session.UpdateUserProfile(profile)
	writeJSON(w, http.StatusOK, h.Session.Snapshot().Profile)
}

func (h *Handler) resetSession(w http.ResponseWriter, r *http.Request) {
	h.Session.Reset()
	writeJSON(w, http.StatusOK, h.Session.Snapshot())
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	q, ok := queryFrom(r)
	if !ok {
		http.Error(w, "unsupported rating threshold", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.Pages.Home(q))
}

func (h *Handler) getRestaurantMenu(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.Catalog.Restaurant(id); !ok {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = filter.All
	}
	menu := filter.FilterMenuItems(h.Catalog.MenuItems(), id, filter.All)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": filter.DistinctCategories(menu),
		"items":      filter.FilterMenuItems(menu, id, category),
	})
}

func queryFrom(r *http.Request) (router.Query, bool) {
	v := r.URL.Query()
	q := router.Query{
		Search:   v.Get("q"),
		Cuisine:  v.Get("cuisine"),
		Rating:   v.Get("rating"),
		Category: v.Get("category"),
	}.Normalize()
	return q, filter.ValidRating(q.Rating)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownPage),
		errors.Is(err, session.ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, session.ErrUnknownRestaurant),
		errors.Is(err, session.ErrUnknownMenuItem),
		errors.Is(err, session.ErrNotInCart),
		errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, session.ErrClosed):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.Logger.Error("request failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
