package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus counters for business-level observability of
// the storefront funnel.
type Metrics struct {
	CartsCreated       prometheus.Counter
	ItemsAdded         prometheus.Counter
	CheckoutsCompleted prometheus.Counter
	CheckoutsRejected  prometheus.Counter
	OrdersPaid         prometheus.Counter
}

// NewMetrics creates and registers the business metrics with the given
// registerer. Pass prometheus.DefaultRegisterer in production; tests use
// a fresh registry to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "strand"
	}
	factory := promauto.With(reg)

	return &Metrics{
		CartsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carts_created_total",
			Help:      "Total number of carts created",
		}),
		ItemsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Total quantity of items added to carts",
		}),
		CheckoutsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_completed_total",
			Help:      "Total number of checkouts accepted by the validation gate",
		}),
		CheckoutsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_rejected_total",
			Help:      "Total number of checkouts rejected by the validation gate",
		}),
		OrdersPaid: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_paid_total",
			Help:      "Total number of orders marked paid",
		}),
	}
}
