package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/gridiron-loader/internal/platform/resilience"
)

const namespace = "gridiron"

const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"

	StatusOK     = "ok"
	StatusFailed = "failed"
	StatusEmpty  = "empty"
)

// Recorder owns the loader's Prometheus collectors. A nil *Recorder discards
// every observation so tests and the CLI can run without a registry.
type Recorder struct {
	gatherer prometheus.Gatherer

	cacheLookups         *prometheus.CounterVec
	builds               *prometheus.CounterVec
	buildDuration        *prometheus.HistogramVec
	registryPlaceholders *prometheus.CounterVec
	upstreamRequests     *prometheus.CounterVec
	upstreamDuration     *prometheus.HistogramVec
	breakerState         *prometheus.GaugeVec
}

// NewRecorder registers every collector on reg. Passing a fresh
// prometheus.Registry keeps tests isolated from the default registry.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	auto := promauto.With(reg)
	return &Recorder{
		gatherer: reg,
		cacheLookups: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "table_cache",
			Name:      "lookups_total",
			Help:      "Table cache lookups by tier and result.",
		}, []string{"level", "result"}),
		builds: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "table",
			Name:      "builds_total",
			Help:      "Table builds by tier and status.",
		}, []string{"level", "status"}),
		buildDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "table",
			Name:      "build_duration_seconds",
			Help:      "Table build latency by tier.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"level"}),
		registryPlaceholders: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "placeholders_total",
			Help:      "Participants resolved to placeholder metadata.",
		}, []string{"reason"}),
		upstreamRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Outbound provider requests by client and outcome.",
		}, []string{"client", "outcome"}),
		upstreamDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Outbound provider request latency by client.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"client"}),
		breakerState: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "circuit_state",
			Help:      "Circuit breaker state per client: 0 closed, 1 half open, 2 open.",
		}, []string{"client"}),
	}
}

func (r *Recorder) CacheLookup(level, result string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(level, result).Inc()
}

func (r *Recorder) BuildFinished(level, status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.builds.WithLabelValues(level, status).Inc()
	r.buildDuration.WithLabelValues(level).Observe(elapsed.Seconds())
}

func (r *Recorder) RegistryPlaceholder(reason string) {
	if r == nil {
		return
	}
	r.registryPlaceholders.WithLabelValues(reason).Inc()
}

func (r *Recorder) UpstreamRequest(client, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(client, outcome).Inc()
	r.upstreamDuration.WithLabelValues(client).Observe(elapsed.Seconds())
}

// CircuitStateChanged matches resilience.StateChangeFunc.
func (r *Recorder) CircuitStateChanged(name string, _ resilience.CircuitState, to resilience.CircuitState) {
	if r == nil {
		return
	}
	value := 0.0
	switch to {
	case resilience.CircuitStateHalfOpen:
		value = 1
	case resilience.CircuitStateOpen:
		value = 2
	}
	r.breakerState.WithLabelValues(name).Set(value)
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
