package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Token verification results.
const (
	ResultOK      = "ok"
	ResultMissing = "missing"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	Registry           *prometheus.Registry
	TokenVerifications *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		TokenVerifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "social",
				Subsystem: "auth",
				Name:      "token_verifications_total",
				Help:      "Token verification outcomes on private routes.",
			},
			[]string{"result"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "social",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
	}
	m.Registry.MustRegister(m.TokenVerifications, m.HTTPRequests)
	return m
}
