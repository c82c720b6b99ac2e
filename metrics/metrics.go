// Package metrics counts request outcomes of the installer server and
// optionally exposes them to Prometheus.
package metrics

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeServed     = "served"
	OutcomeNotFound   = "not_found"
	OutcomeBadRequest = "bad_request"
	OutcomeError      = "error"
)

// Metrics holds the counters of one server instance. Each instance has its
// own registry so several servers can run in one process.
type Metrics struct {
	registry *prometheus.Registry

	InstallerRequests     *prometheus.CounterVec
	CACertificateRequests *prometheus.CounterVec
}

// NewMetrics registers the server counters under namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		InstallerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installer_requests_total",
			Help:      "Installer download requests by outcome.",
		}, []string{"outcome"}),
		CACertificateRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ca_certificate_requests_total",
			Help:      "CA certificate download requests by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.InstallerRequests, m.CACertificateRequests)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// MetricsServer exposes Metrics on a dedicated listener.
type MetricsServer struct {
	srv *http.Server
}

// NewMetricsServer creates a server for m on addr. It does not listen yet.
func NewMetricsServer(m *Metrics, addr string) *MetricsServer {
	mux := chi.NewRouter()
	mux.Method(http.MethodGet, "/metrics", m.Handler())
	return &MetricsServer{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// ListenAndServe blocks until the server is shut down.
func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops the metrics listener.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
