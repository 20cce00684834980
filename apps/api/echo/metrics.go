package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts and times the API requests on its own registry.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portal",
				Name:      "http_requests_total",
				Help:      "Number of HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "portal",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	m.registry.MustRegister(m.requests, m.duration)
	return m
}

// Handler exposes the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			if err := next(ctx); err != nil {
				// let the error handler write the response so the status code is known
				ctx.Error(err)
			}

			route := ctx.Path()
			code := strconv.Itoa(ctx.Response().Status)
			m.requests.WithLabelValues(ctx.Request().Method, route, code).Inc()
			m.duration.WithLabelValues(ctx.Request().Method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
