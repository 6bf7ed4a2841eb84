// Package metrics exposes car activity as Prometheus metrics. A Collector is
// a car.Observer, so it can be attached to every car built by the service,
// and serves its registry over HTTP in the Prometheus text format.
package metrics

import (
	"net/http"

	"github.com/WessleyAI/carlot/engine/car"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's metrics on its own registry.
type Collector struct {
	reg      *prometheus.Registry
	events   *prometheus.CounterVec
	gasLeft  *prometheus.HistogramVec
	lotSize  prometheus.Gauge
	rejected *prometheus.CounterVec
}

// New creates a Collector registered under namespace, including Go runtime
// and process collectors.
func New(namespace string) *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "car_events_total",
			Help:      "Car operations by kind and make.",
		}, []string{"kind", "make"}),
		gasLeft: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "car_gas_left",
			Help:      "Fuel left in the tank after each operation.",
			Buckets:   prometheus.LinearBuckets(0, 1, car.MaxGas+1),
		}, []string{"make"}),
		lotSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lot_cars",
			Help:      "Cars currently held in the lot.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "car_rejected_total",
			Help:      "Car records rejected at construction, by field.",
		}, []string{"field"}),
	}
	c.reg.MustRegister(
		c.events,
		c.gasLeft,
		c.lotSize,
		c.rejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Observe implements car.Observer.
func (c *Collector) Observe(ev car.Event) {
	mk := string(ev.Make)
	c.events.WithLabelValues(string(ev.Kind), mk).Inc()
	c.gasLeft.WithLabelValues(mk).Observe(float64(ev.GasLeft))
}

// SetLotSize records the number of cars in the lot.
func (c *Collector) SetLotSize(n int) { c.lotSize.Set(float64(n)) }

// Rejected counts a record that failed validation on field.
func (c *Collector) Rejected(field string) {
	if field == "" {
		field = "unknown"
	}
	c.rejected.WithLabelValues(field).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
