package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RemindersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_created_total",
			Help: "Total number of reminders created",
		},
	)

	RemindersDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_delivered_total",
			Help: "Total number of reminders delivered",
		},
	)

	DeliveryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_delivery_failures_total",
			Help: "Total number of failed delivery attempts",
		},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(RemindersCreated)
	prometheus.MustRegister(RemindersDelivered)
	prometheus.MustRegister(DeliveryFailures)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
