// Package metrics owns the Prometheus registry of the console and observes every JSON-RPC round trip.
package metrics

import (
	"net/http"
	"time"

	"github.com/kinetix/kx-console/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service implements chain.Observer.
type Service struct {
	Registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
}

// New creates a Service with its own registry, so that tests can create many of them.
func New(cfg config.Server) (*Service, error) {
	registry := prometheus.NewRegistry()

	s := &Service{
		Registry: registry,
		rpcRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Metrics.Namespace,
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Total number of JSON-RPC requests sent to the node, by method and outcome kind.",
			},
			[]string{"method", "outcome"},
		),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Metrics.Namespace,
				Subsystem: "rpc",
				Name:      "request_duration_seconds",
				Help:      "JSON-RPC request latency distributions.",
				Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1.0, 2.0, 5.0, 15.0},
			},
			[]string{"method"},
		),
	}

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: cfg.Metrics.Namespace,
			Name:      "build_info",
			Help:      "Build information of the running binary.",
		},
		[]string{"module", "commit", "build_date"},
	)
	buildInfo.WithLabelValues(config.ModuleName, config.Commit, config.BuildDate).Set(1)

	for _, c := range []prometheus.Collector{
		s.rpcRequests,
		s.rpcDuration,
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ObserveRPC records one node round trip.
func (s *Service) ObserveRPC(method string, outcome string, elapsed time.Duration) {
	s.rpcRequests.WithLabelValues(method, outcome).Inc()
	s.rpcDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry})
}
