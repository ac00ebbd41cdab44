package httpadapter

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brandscope/internal/adapters/backend"
)

// Metrics holds the front-end's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	IntakeSubmissions *prometheus.CounterVec
	InsightReads      *prometheus.CounterVec
	GuardRedirects    prometheus.Counter
	RateLimited       prometheus.Counter
	BackendDuration   *prometheus.HistogramVec
	SweptEntries      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		IntakeSubmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandscope_intake_submissions_total",
				Help: "Intake submits by outcome",
			},
			[]string{"outcome"},
		),
		InsightReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandscope_insight_reads_total",
				Help: "Insight reads by outcome",
			},
			[]string{"outcome"},
		),
		GuardRedirects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brandscope_dashboard_guard_redirects_total",
			Help: "Dashboard visits redirected to intake for lack of a brand",
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brandscope_intake_rate_limited_total",
			Help: "Intake submits rejected by the per-client limiter",
		}),
		BackendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brandscope_backend_request_duration_seconds",
				Help:    "Duration of brand backend calls",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"op", "result"},
		),
		SweptEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brandscope_swept_entries_total",
				Help: "Expired entries removed by the sweeper",
			},
			[]string{"target"},
		),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.IntakeSubmissions,
		m.InsightReads,
		m.GuardRedirects,
		m.RateLimited,
		m.BackendDuration,
		m.SweptEntries,
	)
	return m
}

// ObserveBackend implements backend.Observer.
func (m *Metrics) ObserveBackend(op string, d time.Duration, err error) {
	m.BackendDuration.WithLabelValues(op, backendResult(err)).Observe(d.Seconds())
}

// ObserveSweep records pruned entries for a sweeper target.
func (m *Metrics) ObserveSweep(target string, removed int64) {
	if removed > 0 {
		m.SweptEntries.WithLabelValues(target).Add(float64(removed))
	}
}

func backendResult(err error) string {
	if err == nil {
		return "ok"
	}
	var se *backend.StatusError
	if errors.As(err, &se) {
		if se.Code >= http.StatusInternalServerError {
			return "server_error"
		}
		return "client_error"
	}
	return "error"
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
