// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders committed with all of their tickets.",
	})
	TicketsBooked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tickets_booked_total",
		Help: "Tickets committed as part of an order.",
	})
	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_conflicts_total",
		Help: "Orders rejected because a seat was already booked.",
	})
	AvailabilityClamped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "availability_clamped_total",
		Help: "Availability computations where sold tickets exceeded capacity.",
	})
	OrderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_create_duration_seconds",
		Help:    "Latency of order creation by outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
)
