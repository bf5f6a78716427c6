// Package observability exposes crawl metrics in Prometheus format.
package observability

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks operational metrics for the crawler on a private registry.
type Metrics struct {
	PagesFetched  *prometheus.CounterVec
	FetchFailures *prometheus.CounterVec
	ParseFailures *prometheus.CounterVec
	Records       *prometheus.CounterVec

	registry *prometheus.Registry
	logger   *slog.Logger
}

// NewMetrics creates and registers the crawler metrics.
func NewMetrics(logger *slog.Logger) *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vinmonopolet_pages_fetched_total",
			Help: "Pages fetched with a 2xx status, by page kind.",
		}, []string{"kind"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vinmonopolet_fetch_failures_total",
			Help: "Fetches that failed or returned a non-2xx status, by page kind.",
		}, []string{"kind"}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vinmonopolet_parse_failures_total",
			Help: "Documents that could not be turned into records, by page kind.",
		}, []string{"kind"}),
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vinmonopolet_records_extracted_total",
			Help: "Records extracted, by record kind.",
		}, []string{"kind"}),
		registry: prometheus.NewRegistry(),
		logger:   logger.With("component", "metrics"),
	}
	m.registry.MustRegister(m.PagesFetched, m.FetchFailures, m.ParseFailures, m.Records)
	return m
}

// Handler returns the exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer serves metrics and a health check in the background.
func (m *Metrics) StartServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()
}
