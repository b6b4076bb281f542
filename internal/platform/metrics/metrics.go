// Package metrics exposes Prometheus counters and histograms for the
// decision-support service.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	enginesTriggered  *prometheus.CounterVec
	safetyBlocks      *prometheus.CounterVec
	overridesRecorded *prometheus.CounterVec
	simulationsScored *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		enginesTriggered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engines_triggered_total",
			Help: "Total engine activations by engine id.",
		}, []string{"engine"}),
		safetyBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safety_blocks_total",
			Help: "Total phase transitions blocked by safety rule.",
		}, []string{"rule"}),
		overridesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "overrides_recorded_total",
			Help: "Total recorded overrides by severity tier.",
		}, []string{"severity"}),
		simulationsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simulations_scored_total",
			Help: "Total scored simulation runs by case and outcome.",
		}, []string{"case", "outcome"}),
	}
	m.registry.MustRegister(
		m.httpRequestsTotal, m.httpDuration, m.enginesTriggered,
		m.safetyBlocks, m.overridesRecorded, m.simulationsScored,
	)
	return m
}

// EngineTriggered counts one engine activation. Safe on a nil receiver so
// services can run without metrics in tests.
func (m *Metrics) EngineTriggered(engineID string) {
	if m == nil {
		return
	}
	m.enginesTriggered.WithLabelValues(engineID).Inc()
}

// SafetyBlocked counts one blocked phase transition.
func (m *Metrics) SafetyBlocked(ruleID string) {
	if m == nil {
		return
	}
	m.safetyBlocks.WithLabelValues(ruleID).Inc()
}

// OverrideRecorded counts one recorded override.
func (m *Metrics) OverrideRecorded(severity string) {
	if m == nil {
		return
	}
	m.overridesRecorded.WithLabelValues(severity).Inc()
}

// SimulationScored counts one scored run.
func (m *Metrics) SimulationScored(caseID string, passed bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	m.simulationsScored.WithLabelValues(caseID, outcome).Inc()
}

// HTTPMiddleware records request counts and durations by route.
func (m *Metrics) HTTPMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Response().Status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the Prometheus text exposition endpoint.
func (m *Metrics) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return echo.WrapHandler(h)
}
