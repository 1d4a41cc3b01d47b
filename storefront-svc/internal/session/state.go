package session

import (
	"sort"

	"github.com/Ram071/market/storefront-svc/internal/domain"
)

// State is a detached copy of the session; mutating it has no effect on the store.
type State struct {
	CurrentPage          domain.Page        `json:"current_page"`
	SelectedRestaurantID string             `json:"selected_restaurant_id,omitempty"`
	Cart                 []domain.CartItem  `json:"cart"`
	Orders               []domain.Order     `json:"orders"`
	Favorites            []string           `json:"favorites"`
	Profile              domain.UserProfile `json:"profile"`
	CurrentOrder         *domain.Order      `json:"current_order,omitempty"`
}

func (s State) FavoriteSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Favorites))
	for _, id := range s.Favorites {
		set[id] = struct{}{}
	}
	return set
}

func (s State) IsFavorite(menuItemID string) bool {
	for _, id := range s.Favorites {
		if id == menuItemID {
			return true
		}
	}
	return false
}

func (s State) Order(orderID string) (domain.Order, bool) {
	for _, o := range s.Orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (s *Store) snapshotLocked() State {
	st := State{
		CurrentPage:          s.page,
		SelectedRestaurantID: s.selectedRestaurantID,
		Cart:                 make([]domain.CartItem, len(s.cart)),
		Orders:               make([]domain.Order, 0, len(s.orders)),
		Favorites:            make([]string, 0, len(s.favorites)),
		Profile:              s.profile,
	}
	copy(st.Cart, s.cart)
	for _, o := range s.orders {
		st.Orders = append(st.Orders, o.Clone())
		if o.ID == s.currentOrderID {
			cur := o.Clone()
			st.CurrentOrder = &cur
		}
	}
	for id := range s.favorites {
		st.Favorites = append(st.Favorites, id)
	}
	sort.Strings(st.Favorites)
	return st
}
