// Package metrics exposes Prometheus counters for HTTP traffic and catalog writes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Write outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// WriteRecorder is used by services to count write outcomes.
type WriteRecorder interface {
	RecordWrite(entity, operation, outcome string)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordWrite(string, string, string) {}

// Collector is the Prometheus implementation of WriteRecorder.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	writes   *prometheus.CounterVec
}

// NewCollector registers the collector's metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "milkdelivery_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "milkdelivery_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "milkdelivery_writes_total",
			Help: "Catalog and user writes by entity, operation and outcome.",
		}, []string{"entity", "operation", "outcome"}),
	}

	reg.MustRegister(c.requests, c.latency, c.writes)
	return c
}

// RecordWrite counts one write attempt.
func (c *Collector) RecordWrite(entity, operation, outcome string) {
	c.writes.WithLabelValues(entity, operation, outcome).Inc()
}

// Middleware records request counts and latency keyed by the matched route.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}

			c.requests.WithLabelValues(ctx.Request().Method, route, strconv.Itoa(status)).Inc()
			c.latency.WithLabelValues(ctx.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
