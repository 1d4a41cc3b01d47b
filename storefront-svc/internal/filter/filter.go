// Package filter narrows read-only catalog slices. Every function is pure and
// keeps the order of its input.
package filter

import (
	"strconv"
	"strings"

	"github.com/Ram071/market/storefront-svc/internal/domain"
)

// All is the sentinel facet value that disables a filter.
const All = "all"

// RatingOptions is the closed set of minimum-rating thresholds offered to users.
var RatingOptions = []string{All, "4.5", "4.0", "3.5"}

func ValidRating(minRating string) bool {
	for _, opt := range RatingOptions {
		if opt == minRating {
			return true
		}
	}
	return false
}

// FilterRestaurants keeps restaurants whose name or cuisine contains query
// (case-insensitive), whose cuisine equals cuisine, and whose rating is at
// least minRating. "all" disables the cuisine and rating checks. A threshold
// that does not parse is treated as "all".
func FilterRestaurants(restaurants []domain.Restaurant, query, cuisine, minRating string) []domain.Restaurant {
	q := strings.ToLower(query)
	threshold, hasThreshold := parseRating(minRating)

	out := []domain.Restaurant{}
	for _, r := range restaurants {
		if q != "" && !strings.Contains(strings.ToLower(r.Name), q) && !strings.Contains(strings.ToLower(r.Cuisine), q) {
			continue
		}
		if cuisine != All && r.Cuisine != cuisine {
			continue
		}
		if hasThreshold && r.Rating < threshold {
			continue
		}
		out = append(out, r)
	}
	return out
}

func parseRating(minRating string) (float64, bool) {
	if minRating == All {
		return 0, false
	}
	v, err := strconv.ParseFloat(minRating, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FilterMenuItems restricts items to one restaurant, then to one category
// unless category is "all".
func FilterMenuItems(items []domain.MenuItem, restaurantID, category string) []domain.MenuItem {
	out := []domain.MenuItem{}
	for _, item := range items {
		if item.RestaurantID != restaurantID {
			continue
		}
		if category != All && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out
}

func DistinctCuisines(restaurants []domain.Restaurant) []string {
	return distinct(restaurants, func(r domain.Restaurant) string { return r.Cuisine })
}

func DistinctCategories(items []domain.MenuItem) []string {
	return distinct(items, func(item domain.MenuItem) string { return item.Category })
}

// distinct returns "all" followed by each key in first-occurrence order.
func distinct[T any](src []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(src))
	out := []string{All}
	for _, v := range src {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// FavoriteItems returns the catalog items whose ids are in favorites.
func FavoriteItems(items []domain.MenuItem, favorites map[string]struct{}) []domain.MenuItem {
	out := []domain.MenuItem{}
	for _, item := range items {
		if _, ok := favorites[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out
}

func CartItemCount(cart []domain.CartItem) int {
	n := 0
	for _, item := range cart {
		n += item.Quantity
	}
	return n
}
