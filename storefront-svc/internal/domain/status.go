package domain

type OrderStatus string

const (
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
)

var statusFlow = []OrderStatus{StatusConfirmed, StatusPreparing, StatusDelivering, StatusDelivered}

// Next returns the only status an order may move to from s.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, st := range statusFlow {
		if st == s && i+1 < len(statusFlow) {
			return statusFlow[i+1], true
		}
	}
	return "", false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered
}

func (s OrderStatus) Label() string {
	switch s {
	case StatusConfirmed:
		return "Order Confirmed!"
	case StatusPreparing:
		return "Preparing Your Order"
	case StatusDelivering:
		return "Out for Delivery"
	case StatusDelivered:
		return "Delivered"
	default:
		return "Processing"
	}
}

type Page string

const (
	PageHome              Page = "home"
	PageRestaurantDetail  Page = "restaurant-detail"
	PageCart              Page = "cart"
	PageCheckout          Page = "checkout"
	PageOrderConfirmation Page = "order-confirmation"
	PageProfile           Page = "profile"
)

var Pages = []Page{
	PageHome,
	PageRestaurantDetail,
	PageCart,
	PageCheckout,
	PageOrderConfirmation,
	PageProfile,
}

func ParsePage(s string) (Page, bool) {
	for _, p := range Pages {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}
