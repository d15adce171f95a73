// Package metrics owns the Prometheus registry of the API process.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg *prometheus.Registry

	BookingsCreated   prometheus.Counter
	BookingsConfirmed prometheus.Counter
	BookingsCompleted prometheus.Counter
	PaymentsCharged   *prometheus.CounterVec // label: charger
	PaymentsSettled   prometheus.Counter
	HTTPRequests      *prometheus.CounterVec // labels: method, route, status
}

// New builds a private registry with Go runtime collectors and the
// booking lifecycle counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of pending bookings created.",
		}),
		BookingsConfirmed: f.NewCounter(prometheus.CounterOpts{
			Name: "bookings_confirmed_total",
			Help: "Total number of bookings confirmed after payment.",
		}),
		BookingsCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "bookings_completed_total",
			Help: "Total number of confirmed bookings moved to completed.",
		}),
		PaymentsCharged: f.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_charged_total",
			Help: "Total number of successful charges by charger.",
		}, []string{"charger"}),
		PaymentsSettled: f.NewCounter(prometheus.CounterOpts{
			Name: "payments_settled_total",
			Help: "Total number of payment rows written by the settlement consumer.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
