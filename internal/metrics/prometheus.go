package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "diet_planner"

// Collector exposes the usage log as Prometheus series. It keeps its own
// registry so several instances can coexist in tests.
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	tokens     *prometheus.CounterVec
}

// NewCollector creates a Collector with Go runtime and process metrics registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of engine invocations",
			},
			[]string{"operation"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Latency of engine invocations",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 10},
			},
			[]string{"operation"},
		),
		tokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_tokens_total",
				Help:      "Tokens consumed by model calls",
			},
			[]string{"model", "kind"},
		),
	}
}

// Observe adds one execution to the series. A nil Collector ignores it.
func (c *Collector) Observe(m ExecutionMetric) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(m.Operation).Inc()
	c.latency.WithLabelValues(m.Operation).Observe(float64(m.LatencyMS) / 1000)
	if m.Model != "" {
		c.tokens.WithLabelValues(m.Model, "prompt").Add(float64(m.PromptTokens))
		c.tokens.WithLabelValues(m.Model, "completion").Add(float64(m.CompletionTokens))
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
