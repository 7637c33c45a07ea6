package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the bot.
type Metrics struct {
	UpdatesTotal     *prometheus.CounterVec
	OrdersSubmitted  prometheus.Counter
	ValidationErrors *prometheus.CounterVec
	DeliveryErrors   prometheus.Counter
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			UpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "updates_total",
				Help:      "Total incoming Telegram updates by kind.",
			}, []string{"kind"}),
			OrdersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_submitted_total",
				Help:      "Total completed orders dispatched to the staff channel.",
			}),
			ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total rejected form inputs by field.",
			}, []string{"field"}),
			DeliveryErrors: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "delivery_errors_total",
				Help:      "Total failed deliveries to the staff channel.",
			}),
		}

		prometheus.MustRegister(
			metricsInstance.UpdatesTotal,
			metricsInstance.OrdersSubmitted,
			metricsInstance.ValidationErrors,
			metricsInstance.DeliveryErrors,
		)
	})
	return metricsInstance
}
