package diagnostics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders accepted.",
	})

	OrdersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_rejected_total",
		Help:      "Order submissions rejected, by reason.",
	}, []string{"reason"})

	OrderRevenue = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_revenue_total",
		Help:      "Sum of accepted order totals.",
	})

	BasketSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "basket_sessions",
		Help:      "Basket sessions currently held in memory.",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Order confirmations handled, by result.",
	}, []string{"result"})
)
