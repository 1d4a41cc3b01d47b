// Package metrics exposes storefront counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/Ram071/market/storefront-svc/internal/domain"
	"github.com/Ram071/market/storefront-svc/internal/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	cartMutations     *prometheus.CounterVec
	ordersPlaced      prometheus.Counter
	orderValue        prometheus.Histogram
	statusTransitions *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Cart mutations by operation",
		}, []string{"op"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Orders placed",
		}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_order_total",
			Help:    "Order totals in currency units",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000},
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_order_status_transitions_total",
			Help: "Order status transitions by target status",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.cartMutations,
		c.ordersPlaced,
		c.orderValue,
		c.statusTransitions,
	)
	return c
}

func (c *Collector) RecordCartMutation(op string) {
	c.cartMutations.WithLabelValues(op).Inc()
}

func (c *Collector) RecordOrderPlaced(total float64) {
	c.ordersPlaced.Inc()
	c.orderValue.Observe(total)
}

func (c *Collector) RecordStatusTransition(status domain.OrderStatus) {
	c.statusTransitions.WithLabelValues(string(status)).Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var _ session.MetricsRecorder = (*Collector)(nil)
